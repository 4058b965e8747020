//
// Tencent is pleased to support the open source community by making startup-eval available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// startup-eval is licensed under the Apache License Version 2.0.
//
//

package evaluator

import (
	"fmt"

	"trpc.group/trpc-go/startup-eval/agent"
	"trpc.group/trpc-go/startup-eval/agent/llmagent"
	"trpc.group/trpc-go/startup-eval/agent/proxyagent"
	"trpc.group/trpc-go/startup-eval/team"
)

// Participant names in speaking order.
const (
	MarketAgentName    = "market_agent"
	FinancialAgentName = "financial_agent"
	TechAgentName      = "tech_agent"
	UserProxyName      = "UserProxy"
)

// TeamName names the group chat. It is the source of the final stop event.
const TeamName = "startup_eval"

// MaxRounds is the number of round-robin rounds of one evaluation.
const MaxRounds = 2

const (
	marketInstruction = "You are a Market Research Analyst.\n" +
		"Your role is to evaluate the startup idea by analyzing the target market,\n" +
		"existing competitors, potential demand, and entry barriers."
	financialInstruction = "You are a Financial Analyst.\n" +
		"Your role is to provide a rough financial evaluation of the startup idea.\n" +
		"Estimate initial costs, revenue potential, break-even point, and profitability.\n" +
		"Make assumptions explicit and keep numbers realistic but approximate.\n"
	techInstruction = "You are a Technology Expert.\n" +
		"Your role is to evaluate the technical feasibility of the startup idea.\n" +
		"Discuss the tech stack, scalability, potential technical risks,\n" +
		"and required infrastructure. Suggest alternatives if the idea is not feasible.\n"

	marketDescription = "make a comprehensive market research."
	reviewDescription = "Produces a short Markdown review from provided papers."
	proxyDescription  = "You are an aspiring entrepreneur.\n" +
		"You provide a startup idea in 2–5 sentences.\n" +
		"Clearly describe the product/service, target audience, and unique value proposition."
)

// BuildTeam builds the four-member round-robin team. One model client is
// created per call and shared by the three analysts. The credential is not
// checked here; a missing key surfaces on the first model call.
func BuildTeam(cfg Config, opts ...Option) (*team.RoundRobin, error) {
	o := newOptions(opts...)
	cfg = cfg.withDefaults()

	m := o.modelFactory(cfg)
	if m == nil {
		return nil, fmt.Errorf("evaluator: model factory returned nil for %q", cfg.Model)
	}

	participants := []agent.Agent{
		llmagent.New(MarketAgentName,
			llmagent.WithModel(m),
			llmagent.WithDescription(marketDescription),
			llmagent.WithInstruction(marketInstruction),
		),
		llmagent.New(FinancialAgentName,
			llmagent.WithModel(m),
			llmagent.WithDescription(reviewDescription),
			llmagent.WithInstruction(financialInstruction),
		),
		llmagent.New(TechAgentName,
			llmagent.WithModel(m),
			llmagent.WithDescription(reviewDescription),
			llmagent.WithInstruction(techInstruction),
		),
		proxyagent.New(UserProxyName,
			proxyagent.WithDescription(proxyDescription),
			proxyagent.WithInputFunc(o.inputFunc),
		),
	}
	return team.NewRoundRobin(TeamName, participants, team.WithMaxRounds(MaxRounds))
}
