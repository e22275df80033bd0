// Package ui prints user-facing status messages on stderr with a styled
// "[pyact]" header, the way the shell plugin reports what it is doing.
package ui

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
)

// Printer는 상태 메시지를 출력한다. 헤더는 첫 메시지 앞에 한 번만 붙는다.
type Printer struct {
	w           io.Writer
	quiet       bool
	headerShown bool

	header  lipgloss.Style
	info    lipgloss.Style
	success lipgloss.Style
	failure lipgloss.Style
}

// New는 w로 출력하는 Printer를 만든다. quiet이면 에러 외 메시지를 생략한다.
func New(w io.Writer, quiet bool) *Printer {
	r := lipgloss.NewRenderer(w)
	return &Printer{
		w:       w,
		quiet:   quiet,
		header:  r.NewStyle().Foreground(lipgloss.Color("8")).Bold(true),
		info:    r.NewStyle().Foreground(lipgloss.Color("8")),
		success: r.NewStyle().Foreground(lipgloss.Color("2")),
		failure: r.NewStyle().Foreground(lipgloss.Color("1")),
	}
}

// Discard는 아무것도 출력하지 않는 Printer다.
func Discard() *Printer {
	return New(io.Discard, true)
}

// Info는 안내 메시지를 출력한다.
func (p *Printer) Info(format string, args ...any) {
	if p.quiet {
		return
	}
	p.print(p.info, format, args...)
}

// Success는 성공 메시지를 출력한다.
func (p *Printer) Success(format string, args ...any) {
	if p.quiet {
		return
	}
	p.print(p.success, format, args...)
}

// Error는 실패 메시지를 출력한다. quiet이어도 출력한다.
func (p *Printer) Error(format string, args ...any) {
	p.print(p.failure, format, args...)
}

func (p *Printer) print(style lipgloss.Style, format string, args ...any) {
	if !p.headerShown {
		fmt.Fprintln(p.w, p.header.Render("[pyact]"))
		p.headerShown = true
	}
	fmt.Fprintln(p.w, style.Render("---> "+fmt.Sprintf(format, args...)))
}
