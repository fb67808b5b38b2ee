// Package convert is the facade over the conversion pipeline: decode the
// RDLT, preprocess it, map it to a Petri net, and analyse the result. Errors
// never escape the boundary; they come back inside the Result.
package convert

import (
	"fmt"

	"github.com/L8zn/CMSC-199.2-Thesis/analysis"
	"github.com/L8zn/CMSC-199.2-Thesis/evsa"
	"github.com/L8zn/CMSC-199.2-Thesis/mapper"
	"github.com/L8zn/CMSC-199.2-Thesis/rdlt"
	"github.com/L8zn/CMSC-199.2-Thesis/rdltfile"
	"github.com/L8zn/CMSC-199.2-Thesis/sim"
)

// Convert decodes a JSON RDLT description and runs the full pipeline. When
// extend is true the preprocessor attaches the dummy endpoints and the
// payload carries both analyses.
func Convert(input string, extend bool) (res *Result) {
	res = &Result{}
	defer func() {
		if r := recover(); r != nil {
			res.Data = nil
			res.Err = fmt.Sprintf("internal error: %v", r)
		}
	}()
	r, err := rdltfile.LoadString(input)
	if err != nil {
		res.Err = err.Error()
		return res
	}
	return ConvertGraph(r, extend, 0)
}

// ConvertGraph runs the pipeline on an already-validated model. A maxSteps
// of zero or less selects the simulator default.
func ConvertGraph(r *rdlt.RDLT, extend bool, maxSteps int) *Result {
	res := &Result{}

	pre, err := evsa.Preprocess(r, extend)
	if err != nil {
		res.Err = err.Error()
		return res
	}
	res.Warnings = append(res.Warnings, pre.Warnings...)

	net, logs, err := mapper.Map(pre.Combined)
	if err != nil {
		res.Err = err.Error()
		return res
	}

	payload := &Payload{
		RDLT:          graphView(r),
		Preprocess:    preprocessView(pre),
		CombinedModel: graphView(pre.Combined),
		MapperLogs:    logs,
	}
	if extend {
		payload.StructAnalysis = analysis.Analyze(net)
		payload.BehaviorAnalysis = sim.Run(net, maxSteps)
		// The simulator reverts its snapshot, so the serialised net carries
		// the canonical initial marking.
	}
	payload.PetriNet = netView(net)
	res.Data = payload
	return res
}
