package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/sm8ta/webike_bike_registry/internal/core/domain"
)

const clearValue = "-"

var (
	errorColor = color.New(color.FgRed)
	infoColor  = color.New(color.FgGreen)
	labelColor = color.New(color.FgCyan)
)

// session drives a Form over line based input.
type session struct {
	form    *Form
	scanner *bufio.Scanner
	out     io.Writer
}

// RunForm runs the interactive editor until the user enters an empty frame
// number or the input ends.
func RunForm(ctx context.Context, form *Form, in io.Reader, out io.Writer) error {
	s := &session{
		form:    form,
		scanner: bufio.NewScanner(in),
		out:     out,
	}

	for {
		key, ok := s.prompt("Frame number (empty to quit)", "")
		if !ok || key == "" {
			return s.scanner.Err()
		}

		if err := form.Select(ctx, key); err != nil {
			s.error(err)
			continue
		}

		if form.Model().IsNew() {
			s.info(fmt.Sprintf("New bike %s", key))
		} else {
			s.info(fmt.Sprintf("Loaded %s", form.Model()))
		}

		if !s.edit(ctx) {
			form.Cancel()
			return s.scanner.Err()
		}
	}
}

// edit loops until the bike is saved or cancelled. It returns false when
// the input ended.
func (s *session) edit(ctx context.Context) bool {
	current := s.form.Fields()
	for {
		fields, ok := s.readFields(current)
		if !ok {
			return false
		}

		if err := s.form.Submit(fields); err != nil {
			s.error(err)
			current = fields
			continue
		}
		current = s.form.Fields()

		action, ok := s.prompt("[s]ave, [e]dit, [c]ancel", "s")
		if !ok {
			return false
		}

		switch strings.ToLower(action) {
		case "s", "save":
			result, err := s.form.Save(ctx)
			if err != nil {
				s.error(err)
				continue
			}
			s.info(fmt.Sprintf("Ok, bike saved! (%s)", result))
			return true
		case "c", "cancel":
			s.form.Cancel()
			s.info("Cancelled")
			return true
		default:
			continue
		}
	}
}

func (s *session) readFields(current Fields) (Fields, bool) {
	next := current
	inputs := []struct {
		label string
		value *string
	}{
		{"Brand/type", &next.BrandType},
		{"Description", &next.Description},
		{"Price", &next.Price},
		{"Available from (YYYY-MM-DD)", &next.AvailableDate},
		{"Color (" + colorNames() + ")", &next.Color},
	}

	for _, in := range inputs {
		v, ok := s.prompt(in.label, *in.value)
		if !ok {
			return Fields{}, false
		}
		*in.value = v
	}
	return next, true
}

// prompt prints label with the current value in brackets. An empty answer
// keeps the current value and "-" clears it.
func (s *session) prompt(label, current string) (string, bool) {
	if current != "" {
		labelColor.Fprintf(s.out, "%s [%s]: ", label, current)
	} else {
		labelColor.Fprintf(s.out, "%s: ", label)
	}

	if !s.scanner.Scan() {
		fmt.Fprintln(s.out)
		return "", false
	}

	answer := strings.TrimSpace(s.scanner.Text())
	switch answer {
	case "":
		return current, true
	case clearValue:
		return "", true
	default:
		return answer, true
	}
}

func (s *session) info(msg string) {
	infoColor.Fprintln(s.out, msg)
}

func (s *session) error(err error) {
	errorColor.Fprintln(s.out, "Error: "+err.Error())
}

func colorNames() string {
	names := make([]string, 0, len(domain.Colors()))
	for _, c := range domain.Colors() {
		names = append(names, string(c))
	}
	return strings.Join(names, ", ")
}
