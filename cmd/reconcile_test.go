//go:build !integration

package main

import (
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/callrecon/internal/config"
)

// newReconcileFlags returns a fresh command carrying the reconcile flags so
// tests do not leak Changed state into each other.
func newReconcileFlags(t *testing.T, args ...string) *cobra.Command {
	t.Helper()
	c := &cobra.Command{Use: "reconcile"}
	c.Flags().StringVar(&reconcileOperator, "operator", "", "")
	c.Flags().StringVar(&reconcileIncidents, "incidents", "", "")
	c.Flags().StringVar(&reconcileOut, "out", "", "")
	c.Flags().BoolVar(&reconcileDateFilter, "date-filter", false, "")
	c.Flags().BoolVar(&reconcilePersistRows, "persist-rows", false, "")
	require.NoError(t, c.Flags().Parse(args))
	return c
}

func TestApplyReconcileFlags_Overrides(t *testing.T) {
	c := &config.Config{
		Operator: config.OperatorConfig{Source: "cfg.csv"},
		Incident: config.IncidentConfig{Dir: "cfg-exports"},
		Report:   config.ReportConfig{OutputDir: "cfg-reports"},
	}
	cmd := newReconcileFlags(t,
		"--operator", "flag.csv",
		"--incidents", "flag-exports",
		"--out", "flag-reports",
		"--date-filter",
		"--persist-rows",
	)

	applyReconcileFlags(cmd, c)
	assert.Equal(t, "flag.csv", c.Operator.Source)
	assert.Equal(t, "flag-exports", c.Incident.Dir)
	assert.Equal(t, "flag-reports", c.Report.OutputDir)
	assert.True(t, c.Operator.ApplyDateFilter)
	assert.True(t, c.Store.PersistRows)
}

func TestApplyReconcileFlags_UnsetKeepsConfig(t *testing.T) {
	c := &config.Config{
		Operator: config.OperatorConfig{Source: "cfg.csv", ApplyDateFilter: true},
		Incident: config.IncidentConfig{Dir: "cfg-exports"},
	}
	cmd := newReconcileFlags(t)

	applyReconcileFlags(cmd, c)
	assert.Equal(t, "cfg.csv", c.Operator.Source)
	assert.Equal(t, "cfg-exports", c.Incident.Dir)
	assert.True(t, c.Operator.ApplyDateFilter)
}

func TestApplyReconcileFlags_DisableDateFilter(t *testing.T) {
	c := &config.Config{Operator: config.OperatorConfig{ApplyDateFilter: true}}
	cmd := newReconcileFlags(t, "--date-filter=false")

	applyReconcileFlags(cmd, c)
	assert.False(t, c.Operator.ApplyDateFilter)
}
