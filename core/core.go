// Package core wires the analytics engine to the stores and output writers.
package core

import (
	"context"
	"time"

	"github.com/devflow/devflow/internal/contract"
	"github.com/devflow/devflow/internal/outwriter"
)

// ExecutorFunc defines the function signature shared by the analytics commands.
type ExecutorFunc func(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) error

// ExecuteScore computes the productivity score and prints it.
func ExecuteScore(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) error {
	start := time.Now()
	result, err := GetScoreResult(ctx, cfg, mgr)
	if err != nil {
		return err
	}
	return outwriter.WriteScoreResult(result, cfg, time.Since(start))
}

// ExecuteStreak computes the streaks, refreshes the cached user row and prints them.
func ExecuteStreak(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) error {
	start := time.Now()
	info, err := GetStreakResult(ctx, cfg, mgr)
	if err != nil {
		return err
	}
	return outwriter.WriteStreakResult(info, cfg, time.Since(start))
}

// ExecuteBurnout assesses burnout risk and prints it.
func ExecuteBurnout(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) error {
	start := time.Now()
	assessment, err := GetBurnoutResult(ctx, cfg, mgr)
	if err != nil {
		return err
	}
	return outwriter.WriteBurnoutResult(assessment, cfg, time.Since(start))
}

// ExecuteArchetype reveals the user's archetype and prints it.
func ExecuteArchetype(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) error {
	start := time.Now()
	reveal, err := RevealArchetype(ctx, cfg, mgr)
	if err != nil {
		return err
	}
	return outwriter.WriteRevealResult(reveal, cfg, time.Since(start))
}

// ExecuteArchetypeHistory prints the user's archetype history.
func ExecuteArchetypeHistory(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) error {
	start := time.Now()
	history, err := GetArchetypeHistory(ctx, cfg, mgr)
	if err != nil {
		return err
	}
	return outwriter.WriteArchetypeHistory(history, cfg, time.Since(start))
}

// ExecuteReport prints the full activity report.
func ExecuteReport(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) error {
	start := time.Now()
	report, err := GetActivityReport(ctx, cfg, mgr)
	if err != nil {
		return err
	}
	return outwriter.WriteActivityReport(report, cfg, time.Since(start))
}

// ExecuteIngest pulls activity from src into the store and prints a summary.
func ExecuteIngest(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager, src contract.ActivitySource) error {
	start := time.Now()
	summary, err := RunIngest(ctx, cfg, mgr, src)
	if err != nil {
		return err
	}
	return outwriter.WriteIngestSummary(summary, cfg, time.Since(start))
}
