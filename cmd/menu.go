package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/neighbourhood-cli/internal/model"
	"github.com/sells-group/neighbourhood-cli/internal/scorer"
)

// scoreService is the part of checker.Checker the menu and server use.
type scoreService interface {
	Check(ctx context.Context, addr model.Address) (*model.Report, error)
	Compare(ctx context.Context, a, b model.Address) (*model.Comparison, error)
}

type menuCommand int

const (
	menuExit    menuCommand = 0
	menuCheck   menuCommand = 1
	menuFilters menuCommand = 2
	menuCompare menuCommand = 3
)

type menuSignal int

const (
	menuContinue menuSignal = iota
	menuStop
)

const (
	menuSeparator = "----------------------------------"
	addressPrompt = "Input a correct address, fx: 'Campusvej, 55, 5230, Odense M'"
)

type menu struct {
	in  *bufio.Scanner
	out io.Writer
	svc scoreService
}

func newMenu(in io.Reader, out io.Writer, svc scoreService) *menu {
	return &menu{in: bufio.NewScanner(in), out: out, svc: svc}
}

// run loops until the user picks 0 or input ends.
func (m *menu) run(ctx context.Context) error {
	fmt.Fprintln(m.out, "Welcome to the neighbourhood checker!")

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		fmt.Fprintln(m.out, menuSeparator)
		fmt.Fprintln(m.out, "Please select an option:")
		fmt.Fprintln(m.out, "1. Check address")
		fmt.Fprintln(m.out, "2. Apply Filters")
		fmt.Fprintln(m.out, "3. Compare addresses")
		fmt.Fprintln(m.out, menuSeparator)
		fmt.Fprintln(m.out, "1/2/3 or 0 to cancel")

		line, ok := m.readLine()
		if !ok {
			break
		}
		choice, err := parseMenuCommand(line)
		if err != nil {
			fmt.Fprintln(m.out, err)
			continue
		}

		sig, err := m.dispatch(ctx, choice)
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			zap.L().Debug("menu command failed", zap.Int("command", int(choice)), zap.Error(err))
			fmt.Fprintf(m.out, "Error: %v\n", err)
			continue
		}
		if sig == menuStop {
			break
		}
	}

	fmt.Fprintln(m.out, "System exiting...")
	return nil
}

func parseMenuCommand(line string) (menuCommand, error) {
	n, err := strconv.Atoi(strings.TrimSpace(line))
	if err != nil {
		return 0, eris.Errorf("%q is not a number, choose 1, 2, 3 or 0", strings.TrimSpace(line))
	}
	switch c := menuCommand(n); c {
	case menuExit, menuCheck, menuFilters, menuCompare:
		return c, nil
	default:
		return 0, eris.Errorf("unknown option %d, choose 1, 2, 3 or 0", n)
	}
}

func (m *menu) dispatch(ctx context.Context, c menuCommand) (menuSignal, error) {
	switch c {
	case menuExit:
		fmt.Fprintln(m.out, "Thank you for using the neighbourhood checker. See you another time!")
		return menuStop, nil
	case menuCheck:
		return menuContinue, m.check(ctx)
	case menuFilters:
		fmt.Fprintln(m.out, "Feature not yet implemented!")
		return menuContinue, nil
	case menuCompare:
		return menuContinue, m.compare(ctx)
	}
	return menuContinue, eris.Errorf("menu: unhandled command %d", c)
}

func (m *menu) check(ctx context.Context) error {
	addr, err := m.readAddress()
	if err != nil {
		return err
	}
	report, err := m.svc.Check(ctx, addr)
	if err != nil {
		return err
	}
	return renderReport(m.out, report, formatTable)
}

// compare checks the first address before prompting for the second.
func (m *menu) compare(ctx context.Context) error {
	first, err := m.checkNext(ctx)
	if err != nil {
		return err
	}
	second, err := m.checkNext(ctx)
	if err != nil {
		return err
	}
	cmp := &model.Comparison{First: *first, Second: *second, Best: scorer.Compare(*first, *second)}
	return renderComparison(m.out, cmp, formatTable)
}

func (m *menu) checkNext(ctx context.Context) (*model.Report, error) {
	addr, err := m.readAddress()
	if err != nil {
		return nil, err
	}
	return m.svc.Check(ctx, addr)
}

// readAddress prompts until the line holds four fields. It returns io.EOF when input ends.
func (m *menu) readAddress() (model.Address, error) {
	for {
		fmt.Fprintln(m.out, addressPrompt)
		line, ok := m.readLine()
		if !ok {
			return model.Address{}, io.EOF
		}
		addr, err := model.ParseAddress(line)
		if err == nil {
			return addr, nil
		}
	}
}

func (m *menu) readLine() (string, bool) {
	if !m.in.Scan() {
		return "", false
	}
	return m.in.Text(), true
}
