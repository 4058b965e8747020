//
// Tencent is pleased to support the open source community by making startup-eval available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// startup-eval is licensed under the Apache License Version 2.0.
//
//

// Package team runs several agents as one group chat.
//
// RoundRobin gives every participant one turn per round, in the order they
// were registered, all of them sharing one conversation history:
//   - the task is posted first as a text message from the task source;
//   - each turn sees every text message posted before it;
//   - the run ends after the configured number of rounds with a stop event,
//     or right after the first error event.
//
// The event channel of a run is unbuffered by default, so the
// conversation only advances as fast as the consumer reads.
package team
