package cmd

import (
	"context"
	"fmt"
	"io"

	"wagerbook/config"
	"wagerbook/domain/interfaces"
)

// Settle runs one settlement pass and prints its summary to out
func Settle(ctx context.Context, out io.Writer) error {
	cfg := config.Get()

	c, err := bootstrap(ctx, cfg)
	if err != nil {
		return err
	}
	defer c.close()

	summary, err := c.engine.RunSettlementPass(ctx)
	if err != nil {
		return fmt.Errorf("settlement pass failed: %w", err)
	}

	printSummary(out, summary)
	return nil
}

func printSummary(out io.Writer, summary *interfaces.SettlementSummary) {
	fmt.Fprintf(out, "Settled:        %d\n", summary.SettledCount)
	fmt.Fprintf(out, "Parlay legs:    %d\n", summary.LegsSettled)
	fmt.Fprintf(out, "Still pending:  %d\n", summary.Deferred)
	fmt.Fprintf(out, "Conflicts:      %d\n", summary.Conflicts)
	fmt.Fprintf(out, "Failed:         %d\n", summary.Failed)
	fmt.Fprintf(out, "Slates settled: %d\n", summary.SlatesSettled)
}
