// Command smaapi serves SMA reports over HTTP.
//
//	smaapi serve
//	smaapi report --ticker AAPL --sma-period 20 --start 2024-01-01 --end 2024-06-30
//	smaapi board
package main

import (
	"os"

	"StockSMA/cmd/smaapi/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
