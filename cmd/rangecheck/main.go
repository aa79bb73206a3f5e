// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Command rangecheck demonstrates range constrained arguments. It prints
// the parsed arguments as YAML.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/viper"
	"go.uber.org/zap"
)

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer logger.Sync()

	cmd, err := newCommand(viper.New(), logger, os.Stdout)
	if err != nil {
		logger.Error("failed to define command", zap.Error(err))
		os.Exit(1)
	}
	err = cmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}
