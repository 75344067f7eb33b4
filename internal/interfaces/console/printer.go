package console

import (
	"io"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/valyala/bytebufferpool"

	"github.com/riskibarqy/tippspiel/internal/domain/participant"
	"github.com/riskibarqy/tippspiel/internal/usecase"
)

// statsPadding is the width the breakdown adds around the longest result label:
// marker, " vs. " expansion, ": ", score and tip columns.
const statsPadding = 18

// Printer renders reports as plain text. Each report is assembled in a pooled
// buffer and written with a single Write call.
type Printer struct {
	out io.Writer
}

func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// Users prints "(CODE): Given Sur" per user, codes right-aligned.
func (p *Printer) Users(users []participant.User) error {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	width := 0
	for _, user := range users {
		width = max(width, utf8.RuneCountInString(user.ShortCode))
	}
	for _, user := range users {
		_ = buf.WriteByte('(')
		_, _ = buf.WriteString(padLeft(user.ShortCode, width))
		_, _ = buf.WriteString("): ")
		_, _ = buf.WriteString(user.GivenName)
		_ = buf.WriteByte(' ')
		_, _ = buf.WriteString(user.SurName)
		_ = buf.WriteByte('\n')
	}
	return p.flush(buf)
}

// Table prints "N. Full Name: points" per standing, names right-aligned.
func (p *Printer) Table(standings []usecase.Standing) error {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	width := 0
	for _, row := range standings {
		width = max(width, utf8.RuneCountInString(row.FullName))
	}
	for i, row := range standings {
		_, _ = buf.WriteString(strconv.Itoa(i + 1))
		_, _ = buf.WriteString(". ")
		_, _ = buf.WriteString(padLeft(row.FullName, width))
		_, _ = buf.WriteString(": ")
		_, _ = buf.WriteString(strconv.Itoa(row.Points))
		_ = buf.WriteByte('\n')
	}
	return p.flush(buf)
}

// Stats prints the per-match breakdown of one user under a centered header.
// labelWidth is the engine's ResultLabelWidth.
func (p *Printer) Stats(user participant.User, stats []usecase.MatchStat, labelWidth int) error {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	lineWidth := labelWidth + statsPadding
	_, _ = buf.WriteString(center(user.FullName(), lineWidth))
	_ = buf.WriteByte('\n')
	_, _ = buf.WriteString(strings.Repeat("-", lineWidth))
	_ = buf.WriteByte('\n')

	for _, stat := range stats {
		_, _ = buf.WriteString(marker(stat.Points))
		_ = buf.WriteByte(' ')
		_, _ = buf.WriteString(padLeft(stat.Label(), labelWidth+4))
		_, _ = buf.WriteString(": ")
		_, _ = buf.WriteString(strconv.Itoa(stat.HomeGoals))
		_ = buf.WriteByte('-')
		_, _ = buf.WriteString(strconv.Itoa(stat.AwayGoals))
		_, _ = buf.WriteString(" (")
		_, _ = buf.WriteString(stat.Tip.String())
		_, _ = buf.WriteString(")\n")
	}
	return p.flush(buf)
}

func (p *Printer) flush(buf *bytebufferpool.ByteBuffer) error {
	if buf.Len() == 0 {
		return nil
	}
	_, err := p.out.Write(buf.B)
	return err
}

func marker(points int) string {
	if points <= 0 {
		return "  "
	}
	return "+" + strconv.Itoa(points)
}

func padLeft(s string, width int) string {
	n := utf8.RuneCountInString(s)
	if n >= width {
		return s
	}
	return strings.Repeat(" ", width-n) + s
}

// center pads s to width, putting the odd space on the left when both the
// padding and the width are odd.
func center(s string, width int) string {
	n := utf8.RuneCountInString(s)
	if n >= width {
		return s
	}
	pad := width - n
	left := pad/2 + (pad & width & 1)
	return strings.Repeat(" ", left) + s + strings.Repeat(" ", pad-left)
}
