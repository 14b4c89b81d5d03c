package main

import (
	"bufio"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var packCmd = &cobra.Command{
	Use:   "pack",
	Short: "Read lines from stdin and write framed records to stdout",
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := packagerFromConfig()
		if err != nil {
			return err
		}

		scanner := bufio.NewScanner(os.Stdin)
		var seq int32
		var out []byte
		for scanner.Scan() {
			msg := message{Seq: seq, Payload: []byte(scanner.Text())}
			out, err = p.Pack(out, &msg)
			if err != nil {
				return fmt.Errorf("aglio pack: %w", err)
			}
			seq++
		}
		if err := scanner.Err(); err != nil {
			return fmt.Errorf("aglio pack: reading stdin: %w", err)
		}

		logger.Debug("packed records", "count", seq, "bytes", len(out))
		_, err = os.Stdout.Write(out)
		return err
	},
}

func init() {
	rootCmd.AddCommand(packCmd)
}
