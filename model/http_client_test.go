//
// Tencent is pleased to support the open source community by making startup-eval available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// startup-eval is licensed under the Apache License Version 2.0.
//
//

package model

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) { return f(r) }

func TestDefaultNewHTTPClient(t *testing.T) {
	rt := roundTripFunc(func(*http.Request) (*http.Response, error) { return nil, nil })
	c := DefaultNewHTTPClient(
		WithHTTPClientTransport(rt),
		WithHTTPClientTimeout(3*time.Second),
	)
	hc, ok := c.(*http.Client)
	require.True(t, ok)
	require.NotNil(t, hc.Transport)
	require.Equal(t, 3*time.Second, hc.Timeout)

	hc, ok = DefaultNewHTTPClient().(*http.Client)
	require.True(t, ok)
	require.Nil(t, hc.Transport)
	require.Zero(t, hc.Timeout)
}
