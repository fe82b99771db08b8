// Package structural implements the three structural invariants a
// compiled execution graph must satisfy: acyclicity (I1), terminal
// reachability (I4), and branch isolation (I5). Each check is fatal and
// returns its own typed error.
package structural

import "github.com/vflowhq/workflow-engine/pkg/graph"

// Validate runs the three checks in order, stopping at the first failure:
// a graph that fails acyclicity cannot be usefully walked for reachability
// or branch isolation, and terminal reachability is a precondition for the
// branch-isolation walk to terminate meaningfully.
func Validate(g *graph.Graph) error {
	if err := checkAcyclic(g); err != nil {
		return err
	}
	if err := checkTerminalReachability(g, terminals(g)); err != nil {
		return err
	}
	if err := checkBranchIsolation(g); err != nil {
		return err
	}
	return nil
}
