//
// Tencent is pleased to support the open source community by making startup-eval available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// startup-eval is licensed under the Apache License Version 2.0.
//
//

package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"trpc.group/trpc-go/startup-eval/agent/proxyagent"
	"trpc.group/trpc-go/startup-eval/evaluator"
)

// defaultTopic is evaluated when no topic is given.
const defaultTopic = "Artificial Intelligence"

var evalCmd = &cobra.Command{
	Use:   "eval [topic]",
	Short: "Evaluate one startup idea and print the transcript",
	Long: `Run one evaluation and print every message as "<source>: <content>".
Without a topic the idea "` + defaultTopic + `" is evaluated.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runEval,
}

func init() {
	evalCmd.Flags().String("model", "", "chat model (default from STARTUP_EVAL_MODEL)")
	evalCmd.Flags().Bool("interactive", false, "answer the user proxy turns from stdin")
	rootCmd.AddCommand(evalCmd)
}

func runEval(cmd *cobra.Command, args []string) error {
	topic := defaultTopic
	if len(args) == 1 {
		topic = args[0]
	}
	if strings.TrimSpace(topic) == "" {
		return evaluator.ErrEmptyTopic
	}

	evalCfg := cfg.Evaluator()
	if m, _ := cmd.Flags().GetString("model"); m != "" {
		evalCfg.Model = m
	}
	var opts []evaluator.Option
	if interactive, _ := cmd.Flags().GetBool("interactive"); interactive {
		opts = append(opts, evaluator.WithInputFunc(
			proxyagent.NewReaderInput(cmd.InOrStdin(), cmd.ErrOrStderr())))
	}

	ctx := cmd.Context()
	updates, err := newEvaluator(evalCfg, opts...).Run(ctx, topic)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	for u := range updates {
		if u.Err != nil {
			return fmt.Errorf("evaluation failed: %w", u.Err)
		}
		fmt.Fprintln(out, u.Line)
	}
	return ctx.Err()
}
