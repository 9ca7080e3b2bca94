// Package connection decides whether a proposed edge keeps a model a legal
// simulation topology.
//
// Validation is an ordered chain of pure rules; the first rule that rejects
// determines the result. A rejection is an expected outcome reported as a
// Result, never as an error.
package connection

import (
	"github.com/vk/simgraph/internal/dag"
	"github.com/vk/simgraph/internal/node"
	"github.com/vk/simgraph/internal/topologystore"
)

// Reason identifies the rule that rejected a connection.
type Reason string

const (
	ReasonNone                Reason = ""
	ReasonGeneratorAsTarget   Reason = "GeneratorAsTarget"
	ReasonTransporterToOutput Reason = "TransporterToOutput"
	ReasonElementMismatch     Reason = "ElementMismatch"
	ReasonCycleDetected       Reason = "CycleDetected"
)

// Messages shown to the user for each rejection.
const (
	MsgGeneratorAsTarget   = "Generators cannot receive connections"
	MsgTransporterToOutput = "A transporter cannot connect directly to an output"
	MsgElementMissing      = "Both nodes must have an element selected"
	MsgElementMismatch     = "Both nodes must use the same element"
	MsgCycleDetected       = "Cycles are not allowed in the graph"
)

// Options tunes the rule chain.
type Options struct {
	// StrictElementMatch requires both endpoints to name the same element.
	// When false, only two different named elements are rejected.
	StrictElementMatch bool `json:"strictElementMatch"`
}

// DefaultOptions returns the options used when none are given: strict.
func DefaultOptions() Options {
	return Options{StrictElementMatch: true}
}

// Context is everything a rule may look at. Edges is the current edge set,
// without the proposed edge.
type Context struct {
	Source  node.State
	Target  node.State
	Edges   []topologystore.Edge
	Options Options
}

// Result is the verdict on a proposed edge.
type Result struct {
	Valid   bool   `json:"valid"`
	Reason  Reason `json:"reason,omitempty"`
	Message string `json:"message,omitempty"`
}

// Accepted is the verdict of a connection no rule rejected.
var Accepted = Result{Valid: true}

func reject(reason Reason, msg string) Result {
	return Result{Valid: false, Reason: reason, Message: msg}
}

// Rule inspects a context and either accepts or rejects it.
type Rule struct {
	Name  Reason
	Check func(ctx Context) Result
}

// Rules is the chain in evaluation order.
var Rules = []Rule{
	{Name: ReasonGeneratorAsTarget, Check: generatorTarget},
	{Name: ReasonTransporterToOutput, Check: transporterConsumer},
	{Name: ReasonElementMismatch, Check: sameElement},
	{Name: ReasonCycleDetected, Check: acyclic},
}

// Validate runs the rule chain and returns the first rejection, or
// Accepted.
func Validate(ctx Context) Result {
	for _, r := range Rules {
		if res := r.Check(ctx); !res.Valid {
			return res
		}
	}
	return Accepted
}

func generatorTarget(ctx Context) Result {
	if ctx.Target.Kind == node.Generator {
		return reject(ReasonGeneratorAsTarget, MsgGeneratorAsTarget)
	}
	return Accepted
}

func transporterConsumer(ctx Context) Result {
	if ctx.Source.Kind == node.Transporter && ctx.Target.Kind == node.Output {
		return reject(ReasonTransporterToOutput, MsgTransporterToOutput)
	}
	return Accepted
}

func sameElement(ctx Context) Result {
	src, dst := ctx.Source.ElementTypeID(), ctx.Target.ElementTypeID()
	if ctx.Options.StrictElementMatch {
		if src == "" || dst == "" {
			return reject(ReasonElementMismatch, MsgElementMissing)
		}
		if src != dst {
			return reject(ReasonElementMismatch, MsgElementMismatch)
		}
		return Accepted
	}
	if src != "" && dst != "" && src != dst {
		return reject(ReasonElementMismatch, MsgElementMismatch)
	}
	return Accepted
}

func acyclic(ctx Context) Result {
	if dag.WouldCreateCycle(ctx.Edges, ctx.Source.ID, ctx.Target.ID) {
		return reject(ReasonCycleDetected, MsgCycleDetected)
	}
	return Accepted
}
