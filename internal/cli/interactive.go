package cli

import (
	"bufio"
	"context"
	"fmt"
	"strconv"
	"strings"
)

const menu = `
Main Menu
  Trading
    1. Market Order
    2. Limit Order
    3. OCO Order
  4. Check Connection
  0. Exit
`

// runInteractive drives the prompt loop until the user exits or stdin
// closes.
func (a *App) runInteractive(ctx context.Context) error {
	reader := bufio.NewReader(a.in)

	for {
		fmt.Fprint(a.out, menu)
		choice, ok := a.prompt(reader, "Select option", "0")
		if !ok {
			return nil
		}
		fmt.Fprintln(a.out)

		switch choice {
		case "1":
			a.interactiveMarket(ctx, reader)
		case "2":
			a.interactiveLimit(ctx, reader)
		case "3":
			a.interactiveOCO(ctx, reader)
		case "4":
			if a.trader.CheckConnection(ctx) {
				fmt.Fprintln(a.out, "Connection successful")
			} else {
				fmt.Fprintln(a.out, "Connection failed")
			}
		case "0":
			fmt.Fprintln(a.out, "Exiting.")
			return nil
		default:
			fmt.Fprintf(a.out, "Unknown option %q\n", choice)
		}
	}
}

func (a *App) interactiveMarket(ctx context.Context, reader *bufio.Reader) {
	symbol, side, qty, ok := a.promptCommon(reader)
	if !ok {
		return
	}
	if !a.confirm(reader) {
		return
	}
	ack, err := a.trader.Market(ctx, symbol, side, qty, 0)
	if err != nil {
		a.reportFailure("Market order", err)
		return
	}
	renderAck(a.out, "Market Order Result", ack)
}

func (a *App) interactiveLimit(ctx context.Context, reader *bufio.Reader) {
	symbol, side, qty, ok := a.promptCommon(reader)
	if !ok {
		return
	}
	price, ok := a.promptFloat(reader, "Limit Price", "")
	if !ok {
		return
	}
	if !a.confirm(reader) {
		return
	}
	ack, err := a.trader.Limit(ctx, symbol, side, qty, price, "")
	if err != nil {
		a.reportFailure("Limit order", err)
		return
	}
	renderAck(a.out, "Limit Order Result", ack)
}

func (a *App) interactiveOCO(ctx context.Context, reader *bufio.Reader) {
	symbol, side, qty, ok := a.promptCommon(reader)
	if !ok {
		return
	}
	tp, ok := a.promptFloat(reader, "Take Profit %", "2")
	if !ok {
		return
	}
	sl, ok := a.promptFloat(reader, "Stop Loss %", "2")
	if !ok {
		return
	}
	if !a.confirm(reader) {
		return
	}
	pair, err := a.trader.OCO(ctx, symbol, side, qty, tp, sl)
	if err != nil {
		a.reportFailure("Bracket", err)
		return
	}
	renderAck(a.out, "OCO Stop Order", pair.StopLoss)
	renderAck(a.out, "OCO Take Profit Order", pair.TakeProfit)
}

func (a *App) promptCommon(reader *bufio.Reader) (symbol, side string, qty float64, ok bool) {
	symbol, ok = a.prompt(reader, "Symbol", "BTCUSDT")
	if !ok {
		return
	}
	side, ok = a.prompt(reader, "Side (BUY/SELL)", "")
	if !ok {
		return
	}
	qty, ok = a.promptFloat(reader, "Quantity", "")
	return
}

// prompt reads one line, applying the default on empty input. ok is
// false when stdin closed.
func (a *App) prompt(reader *bufio.Reader, label, def string) (string, bool) {
	if def != "" {
		fmt.Fprintf(a.out, "%s [%s]: ", label, def)
	} else {
		fmt.Fprintf(a.out, "%s: ", label)
	}

	line, err := reader.ReadString('\n')
	if err != nil && line == "" {
		return "", false
	}
	line = strings.TrimSpace(line)
	if line == "" {
		line = def
	}
	return line, true
}

func (a *App) promptFloat(reader *bufio.Reader, label, def string) (float64, bool) {
	for {
		raw, ok := a.prompt(reader, label, def)
		if !ok {
			return 0, false
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err == nil {
			return v, true
		}
		fmt.Fprintf(a.out, "Not a number: %q\n", raw)
	}
}

func (a *App) confirm(reader *bufio.Reader) bool {
	answer, ok := a.prompt(reader, "Confirm order execution? (y/N)", "N")
	if !ok {
		return false
	}
	return strings.EqualFold(answer, "y") || strings.EqualFold(answer, "yes")
}
