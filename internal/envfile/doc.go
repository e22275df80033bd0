// Package envfile discovers Python environment markers (conda environment
// files, .linked_env links, poetry projects, virtualenv directories) by walking
// from a directory up to the filesystem root, and reads and writes the
// .linked_env file that associates a directory with an environment.
package envfile
