//
// Tencent is pleased to support the open source community by making startup-eval available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// startup-eval is licensed under the Apache License Version 2.0.
//
//

package agent

import (
	"context"
)

type invocationKey struct{}

// NewInvocationContext returns a child of ctx carrying invocation.
func NewInvocationContext(ctx context.Context, invocation *Invocation) context.Context {
	return context.WithValue(ctx, invocationKey{}, invocation)
}

// InvocationFromContext returns the invocation from the context.
func InvocationFromContext(ctx context.Context) (*Invocation, bool) {
	invocation, ok := ctx.Value(invocationKey{}).(*Invocation)
	return invocation, ok
}

// CheckContextCancelled check context cancelled
func CheckContextCancelled(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
		return nil
	}
}
