//
// Tencent is pleased to support the open source community by making startup-eval available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// startup-eval is licensed under the Apache License Version 2.0.
//
//

package model

import "strings"

// nonEmptyContentPlaceholder replaces blank content, which strict chat
// APIs reject.
const nonEmptyContentPlaceholder = " "

// HasPayload reports whether the message has non-blank Content.
func HasPayload(msg Message) bool {
	return strings.TrimSpace(msg.Content) != ""
}

// SanitizeMessages returns a copy of messages that strict chat APIs accept:
// messages with an unknown role are dropped and blank content is replaced
// by a placeholder. The input is not modified.
func SanitizeMessages(messages []Message) []Message {
	out := make([]Message, 0, len(messages))
	for _, msg := range messages {
		if !msg.Role.IsValid() {
			continue
		}
		if !HasPayload(msg) {
			msg.Content = nonEmptyContentPlaceholder
		}
		out = append(out, msg)
	}
	return out
}
