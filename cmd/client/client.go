package client

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/scienceol/tracerx/cmd/api"
	"github.com/scienceol/tracerx/pkg/core/barcode"
	"github.com/scienceol/tracerx/pkg/middleware/db"
	"github.com/scienceol/tracerx/pkg/repo/remote"
	sStore "github.com/scienceol/tracerx/pkg/repo/sample"
)

const defaultAddr = "http://127.0.0.1:3000"

// NewPush posts a JSON array of samples read from a file to a running server.
func NewPush() *cobra.Command {
	var file, addr string
	cmd := &cobra.Command{
		Use:          "push",
		Short:        "Post samples from a JSON file to a running server",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			data, err := os.ReadFile(file)
			if err != nil {
				return err
			}
			if err := checkArray(data); err != nil {
				return fmt.Errorf("%s: %w", file, err)
			}
			msg, err := remote.NewRemoteRepo(addr).PushSamples(cmd.Context(), data)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), msg)
			return nil
		},
	}
	cmd.Flags().StringVar(&file, "file", "", "JSON file holding an array of samples")
	cmd.Flags().StringVar(&addr, "addr", defaultAddr, "server base URL")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func checkArray(data []byte) error {
	var items []json.RawMessage
	if err := json.Unmarshal(data, &items); err != nil || items == nil {
		return fmt.Errorf("expected a JSON array of samples")
	}
	return nil
}

// NewBarcode groups barcode utilities.
func NewBarcode() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "barcode",
		Short: "Barcode utilities",
	}
	cmd.AddCommand(newBarcodeNext())
	return cmd
}

func newBarcodeNext() *cobra.Command {
	var count int
	var addr string
	cmd := &cobra.Command{
		Use:          "next",
		Short:        "Print the next barcodes without reserving them",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if count < 1 {
				return fmt.Errorf("count must be positive")
			}
			var codes []string
			if addr != "" {
				var err error
				if codes, err = remote.NewRemoteRepo(addr).NextBarcodes(cmd.Context(), count); err != nil {
					return err
				}
			} else {
				api.InitDB(cmd.Context())
				defer db.CloseDB(cmd.Context())
				existing, err := sStore.NewSampleImpl(db.DB()).ListBarcodes(cmd.Context())
				if err != nil {
					return err
				}
				codes = barcode.NextN(existing, count)
			}
			fmt.Fprintln(cmd.OutOrStdout(), strings.Join(codes, "\n"))
			return nil
		},
	}
	cmd.Flags().IntVar(&count, "count", 1, "how many barcodes to print")
	cmd.Flags().StringVar(&addr, "addr", "", "ask a running server instead of the database")
	return cmd
}
