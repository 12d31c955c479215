package verify

import (
	"context"
	"hash/fnv"
	"sync"

	"github.com/chainseal/chainseal-go/content"
	"github.com/chainseal/chainseal-go/ledger"
)

// DefaultExtraSamples is the number of interior indices sampled per chain in
// addition to the two boundaries.
const DefaultExtraSamples = 3

// DeepOptions tunes probabilistic verification.
type DeepOptions struct {
	// ExtraSamples is the number of interior indices to sample beyond the
	// boundaries. Zero means DefaultExtraSamples; negative disables interior
	// sampling.
	ExtraSamples int

	// VerifyContent re-derives each sampled feedback record's seal hash from
	// its content and cross-checks ipfs:// URIs against the file hash.
	VerifyContent bool

	// Seed fixes the sampling generator. Zero derives a stable seed from the
	// agent so repeated runs check the same indices; verification never
	// consults the clock.
	Seed int64
}

func (o DeepOptions) extraSamples() int {
	if o.ExtraSamples == 0 {
		return DefaultExtraSamples
	}
	if o.ExtraSamples < 0 {
		return 0
	}
	return o.ExtraSamples
}

func (o DeepOptions) seed(agent string) int64 {
	if o.Seed != 0 {
		return o.Seed
	}
	h := fnv.New64a()
	h.Write([]byte(agent))
	return int64(h.Sum64())
}

type spotTask struct {
	kind  ledger.Kind
	index uint64
}

type spotOutcome struct {
	missing  int
	modified int
	err      error
}

// Deep performs probabilistic verification: the on-chain and indexer summary
// views are fetched concurrently and compared, then a small sample of
// records per chain (always including both boundaries) is spot-checked.
//
// Status per chain: I/O failure → error; missing or modified sample, digest
// divergence at equal counts, or negative lag → corrupted; positive lag with
// all samples passing → syncing; otherwise valid. The report's overall
// status is the worst chain status.
func (v *Verifier) Deep(ctx context.Context, agent string, opts DeepOptions) *Report {
	onChain, indexed, err := v.fetchViews(ctx, agent)
	if err != nil {
		return errorReport(agent, "deep", err)
	}

	report := &Report{Agent: agent, Mode: "deep"}
	var tasks []spotTask

	for _, kind := range ledger.Kinds() {
		oc := onChain.For(kind)
		ix := indexed.For(kind)
		cr := ChainReport{
			Kind:    kind,
			OnChain: oc,
			Indexed: ix,
			Lag:     int64(oc.Count) - int64(ix.Count),
			Match:   oc == ix,
		}
		if cr.Lag >= 0 {
			cr.SampledIndices = sampleIndices(ix.Count, opts.extraSamples(), opts.seed(agent))
			for _, idx := range cr.SampledIndices {
				tasks = append(tasks, spotTask{kind: kind, index: idx})
			}
		}
		report.Chains = append(report.Chains, cr)
	}

	outcomes := v.runSpotChecks(ctx, agent, tasks, opts.VerifyContent)

	for i := range report.Chains {
		cr := &report.Chains[i]
		out := outcomes[cr.Kind]

		cr.MissingItems = out.missing
		cr.SpotChecksPassed = out.err == nil && out.missing == 0 && out.modified == 0

		switch {
		case out.err != nil:
			cr.Status = StatusError
			cr.Err = out.err.Error()
		case cr.Lag < 0:
			cr.Status = StatusCorrupted
		case out.missing > 0 || out.modified > 0:
			cr.Status = StatusCorrupted
		case cr.Lag > 0:
			cr.Status = StatusSyncing
		case !cr.Match:
			// Counts agree but digests differ: proven divergence.
			cr.Status = StatusCorrupted
		default:
			cr.Status = StatusValid
		}
	}

	report.Status = aggregate(report.Chains)
	return report
}

// runSpotChecks fetches the sampled records concurrently; the lookups are
// mutually independent reads.
func (v *Verifier) runSpotChecks(ctx context.Context, agent string, tasks []spotTask, verifyContent bool) map[ledger.Kind]*spotOutcome {
	outcomes := map[ledger.Kind]*spotOutcome{
		ledger.KindFeedback: {},
		ledger.KindResponse: {},
		ledger.KindRevoke:   {},
	}
	if len(tasks) == 0 {
		return outcomes
	}

	var wg sync.WaitGroup
	var mu sync.Mutex

	for _, task := range tasks {
		wg.Add(1)
		go func(task spotTask) {
			defer wg.Done()
			missing, modified, err := v.spotCheck(ctx, agent, task, verifyContent)
			mu.Lock()
			defer mu.Unlock()
			out := outcomes[task.kind]
			out.missing += missing
			out.modified += modified
			if err != nil && out.err == nil {
				out.err = err
			}
		}(task)
	}
	wg.Wait()
	return outcomes
}

func (v *Verifier) spotCheck(ctx context.Context, agent string, task spotTask, verifyContent bool) (missing, modified int, err error) {
	switch task.kind {
	case ledger.KindFeedback:
		rec, lerr := v.Index.FeedbackAt(ctx, agent, task.index)
		if IsNotFound(lerr) {
			return 1, 0, nil
		}
		if lerr != nil {
			return 0, 0, lerr
		}
		if verifyContent {
			if cerr := content.VerifyFeedback(rec); cerr != nil {
				return 0, 1, nil
			}
		}
	case ledger.KindResponse:
		_, lerr := v.Index.ResponseAt(ctx, agent, task.index)
		if IsNotFound(lerr) {
			return 1, 0, nil
		}
		if lerr != nil {
			return 0, 0, lerr
		}
	case ledger.KindRevoke:
		_, lerr := v.Index.RevokeAt(ctx, agent, task.index)
		if IsNotFound(lerr) {
			return 1, 0, nil
		}
		if lerr != nil {
			return 0, 0, lerr
		}
	}
	return 0, 0, nil
}
