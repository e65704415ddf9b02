package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

var amCmd = &cobra.Command{
	Use:   "artmarket",
	Short: "Art Market CLI",
}

func Execute() {
	amCmd.AddCommand(cmdMint)
	amCmd.AddCommand(cmdEdition)
	amCmd.AddCommand(cmdApprove)
	amCmd.AddCommand(cmdList)
	amCmd.AddCommand(cmdCancel)
	amCmd.AddCommand(cmdBuy)
	amCmd.AddCommand(cmdFee)
	amCmd.AddCommand(cmdDeposit)
	amCmd.AddCommand(cmdHoldings)
	amCmd.AddCommand(cmdSync)
	amCmd.AddCommand(cmdListings)
	amCmd.AddCommand(cmdSales)
	amCmd.AddCommand(cmdProvenance)
	amCmd.AddCommand(cmdStatus)
	amCmd.Execute()
}

func dumpJSON(v interface{}) error {
	b, err := json.MarshalIndent(v, "", "    ")
	if err != nil {
		return err
	}

	fmt.Printf("%s\n", b)
	return nil
}
