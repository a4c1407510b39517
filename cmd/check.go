package main

import (
	"os/signal"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/neighbourhood-cli/internal/model"
)

var checkCmd = &cobra.Command{
	Use:   "check <address>",
	Short: "Score one address",
	Long: `Score one address given as "street, house number, postal code, city".

Examples:
  check "Campusvej, 55, 5230, Odense M"
  check "Campusvej, 55, 5230, Odense M" --format json`,
	Args: cobra.ExactArgs(1),
	RunE: runCheck,
}

var compareCmd = &cobra.Command{
	Use:   "compare <address> <address>",
	Short: "Score two addresses and pick the better one",
	Long: `Score two addresses one after the other. On equal scores the second address wins.

Example:
  compare "Campusvej, 55, 5230, Odense M" "Vestergade, 1, 5000, Odense C"`,
	Args: cobra.ExactArgs(2),
	RunE: runCompare,
}

func init() {
	checkCmd.Flags().String("format", "table", "output format: table, csv or json")
	compareCmd.Flags().String("format", "table", "output format: table, csv or json")

	rootCmd.AddCommand(checkCmd, compareCmd)
}

func parseAddresses(args []string) ([]model.Address, error) {
	addrs := make([]model.Address, len(args))
	for i, arg := range args {
		a, err := model.ParseAddress(arg)
		if err != nil {
			return nil, err
		}
		addrs[i] = a
	}
	return addrs, nil
}

func runCheck(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	formatFlag, _ := cmd.Flags().GetString("format")
	format, err := parseFormat(formatFlag)
	if err != nil {
		return err
	}
	addrs, err := parseAddresses(args)
	if err != nil {
		return err
	}
	if err := cfg.Validate("check"); err != nil {
		return err
	}

	chk, _, err := initChecker(cfg, nil)
	if err != nil {
		return err
	}
	report, err := chk.Check(ctx, addrs[0])
	if err != nil {
		return eris.Wrapf(err, "check %s", addrs[0].Short())
	}
	return renderReport(cmd.OutOrStdout(), report, format)
}

func runCompare(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	formatFlag, _ := cmd.Flags().GetString("format")
	format, err := parseFormat(formatFlag)
	if err != nil {
		return err
	}
	addrs, err := parseAddresses(args)
	if err != nil {
		return err
	}
	if err := cfg.Validate("check"); err != nil {
		return err
	}

	chk, _, err := initChecker(cfg, nil)
	if err != nil {
		return err
	}
	cmp, err := chk.Compare(ctx, addrs[0], addrs[1])
	if err != nil {
		return eris.Wrap(err, "compare")
	}
	return renderComparison(cmd.OutOrStdout(), cmp, format)
}
