// RepFlow — a constrained workout generator and interval timer.
//
// Usage:
//
//	repflow run [--length 8] [--groups chest,legs] [--work 45] [--rest 15]
//	repflow generate [--length 8] [--seed 42]
//	repflow exercises [query]
//	repflow history [--limit 10]
package main

import "os"

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
