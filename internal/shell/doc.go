// Package shell provides shell integration for automatic environment activation.
// It renders environment deltas as statements for zsh, bash and fish, and
// generates the init script that defines the hook functions and registers
// activation on directory change (add-zsh-hook chpwd for Zsh, PROMPT_COMMAND
// for Bash, --on-variable PWD for Fish).
package shell
