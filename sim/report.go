package sim

import (
	"sort"
	"strings"

	"github.com/L8zn/CMSC-199.2-Thesis/petrinet"
)

// Termination classes of a single firing sequence.
const (
	TerminationNone   = "None"
	TerminationProper = "Proper"
	TerminationWeak   = "Weak"
	TerminationOption = "Option"
)

// Aggregate termination across every sequence.
const (
	AggregateClassical = "Classical"
	AggregateRelaxed   = "Relaxed"
	AggregateLazy      = "Lazy"
	AggregateEasy      = "Easy"
	AggregateNone      = "None"
)

// Overall soundness verdicts.
const (
	SoundClassical    = "Classical"
	SoundWeak         = "Weak"
	SoundRelaxed      = "Relaxed"
	SoundLazy         = "Lazy"
	SoundEasy         = "Easy"
	SoundNoConclusion = "NoConclusion"
)

// TerminationChecks are the observations behind a sequence's class.
type TerminationChecks struct {
	SinkTokens  int  `json:"sinkTokens"`
	OthersEmpty bool `json:"othersEmpty"`
}

// SequenceResult classifies one enumerated firing sequence.
type SequenceResult struct {
	SequenceIndex      int               `json:"sequenceIndex"`
	Option             string            `json:"option"`
	TerminationChecks  TerminationChecks `json:"terminationChecks"`
	TerminationType    string            `json:"terminationType"`
	FiringSequence     []string          `json:"firingSequence"`
	ActivityExtraction []string          `json:"activityExtraction"`
}

// Report is the behavioural analysis of one net.
type Report struct {
	RunID              string            `json:"runId"`
	SimulationResults  [][]*Step         `json:"simulationResults"`
	PerSequence        []*SequenceResult `json:"perSequenceResults"`
	OverallLiveness    bool              `json:"overallLiveness"`
	OverallTermination string            `json:"overallTermination"`
	OverallSoundness   string            `json:"overallSoundness"`
}

func (s *simulator) report() *Report {
	rep := &Report{RunID: runID()}

	sink := s.net.GlobalSinkPlace()
	fired := make(map[string]bool)

	for i, seq := range s.sequences {
		rep.SimulationResults = append(rep.SimulationResults, seq.steps)

		var firing []string
		var acts []string
		for _, step := range seq.steps {
			firing = append(firing, "{"+strings.Join(step.Fired, ", ")+"}")
			for _, id := range step.Fired {
				fired[id] = true
				if t := s.net.Transition(id); t != nil && t.Activities != "" {
					acts = append(acts, t.Activities)
				}
			}
		}

		checks, class := classify(seq.final, sink)
		rep.PerSequence = append(rep.PerSequence, &SequenceResult{
			SequenceIndex:      i,
			Option:             strings.Join(seq.choices, "; "),
			TerminationChecks:  checks,
			TerminationType:    class,
			FiringSequence:     firing,
			ActivityExtraction: acts,
		})
	}

	rep.OverallLiveness = s.liveness(fired)
	rep.OverallTermination = aggregate(rep.PerSequence)
	rep.OverallSoundness = soundness(rep.OverallTermination, rep.OverallLiveness)
	return rep
}

// classify applies the per-sequence termination rules to a final marking.
func classify(m petrinet.Marking, sink *petrinet.Place) (TerminationChecks, string) {
	checks := TerminationChecks{OthersEmpty: true}
	sinkID := ""
	if sink != nil {
		sinkID = sink.ID
		checks.SinkTokens = m[sink.ID]
	}
	for id, tokens := range m {
		if id != sinkID && tokens != 0 {
			checks.OthersEmpty = false
			break
		}
	}
	switch {
	case checks.SinkTokens == 0:
		return checks, TerminationNone
	case checks.SinkTokens == 1 && checks.OthersEmpty:
		return checks, TerminationProper
	case checks.SinkTokens == 1:
		return checks, TerminationWeak
	default:
		return checks, TerminationOption
	}
}

func aggregate(results []*SequenceResult) string {
	if len(results) == 0 {
		return AggregateNone
	}
	count := make(map[string]int)
	for _, r := range results {
		count[r.TerminationType]++
	}
	total := len(results)
	switch {
	case count[TerminationProper] == total:
		return AggregateClassical
	case count[TerminationProper] > 0:
		return AggregateRelaxed
	case count[TerminationWeak] == total:
		return AggregateLazy
	case count[TerminationOption] > 0:
		return AggregateEasy
	default:
		return AggregateNone
	}
}

// liveness holds when every transition of the net fired in some sequence.
func (s *simulator) liveness(fired map[string]bool) bool {
	for _, t := range s.net.Transitions {
		if !fired[t.ID] {
			return false
		}
	}
	return true
}

func soundness(agg string, live bool) string {
	switch agg {
	case AggregateClassical:
		if live {
			return SoundClassical
		}
		return SoundWeak
	case AggregateRelaxed:
		if live {
			return SoundRelaxed
		}
		return SoundEasy
	case AggregateLazy:
		return SoundLazy
	case AggregateEasy:
		return SoundEasy
	default:
		return SoundNoConclusion
	}
}

// FiredTransitions returns the sorted union of transitions fired across all
// sequences.
func (r *Report) FiredTransitions() []string {
	seen := make(map[string]bool)
	for _, seq := range r.SimulationResults {
		for _, step := range seq {
			for _, id := range step.Fired {
				seen[id] = true
			}
		}
	}
	out := make([]string, 0, len(seen))
	for id := range seen {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}
