//
// Tencent is pleased to support the open source community by making startup-eval available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// startup-eval is licensed under the Apache License Version 2.0.
//
//

package proxyagent

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"trpc.group/trpc-go/startup-eval/agent"
)

// InputFunc produces the proxy's reply. It must return when ctx is done.
type InputFunc func(ctx context.Context, prompt string) (string, error)

// restatePrefix starts every scripted reply.
const restatePrefix = "To restate my idea: "

// RestateTask replies by restating the task of the running invocation. It is
// the default input function so a team never blocks on a human.
func RestateTask(ctx context.Context, _ string) (string, error) {
	inv, ok := agent.InvocationFromContext(ctx)
	if !ok || strings.TrimSpace(inv.Task) == "" {
		return "", errors.New("no task to restate")
	}
	return restatePrefix + strings.TrimSpace(inv.Task), nil
}

// Scripted returns an input function that always answers reply.
func Scripted(reply string) InputFunc {
	return func(context.Context, string) (string, error) {
		return reply, nil
	}
}

// NewReaderInput returns an input function that writes the prompt to w and
// reads one line from r. A pending read is abandoned when ctx is done.
func NewReaderInput(r io.Reader, w io.Writer) InputFunc {
	var (
		mu     sync.Mutex
		reader = bufio.NewReader(r)
	)
	type result struct {
		line string
		err  error
	}
	return func(ctx context.Context, prompt string) (string, error) {
		if w != nil && prompt != "" {
			if _, err := fmt.Fprint(w, prompt); err != nil {
				return "", err
			}
		}
		done := make(chan result, 1)
		go func() {
			mu.Lock()
			defer mu.Unlock()
			line, err := reader.ReadString('\n')
			if err == io.EOF && line != "" {
				err = nil
			}
			done <- result{line: strings.TrimRight(line, "\r\n"), err: err}
		}()
		select {
		case res := <-done:
			return res.line, res.err
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
}
