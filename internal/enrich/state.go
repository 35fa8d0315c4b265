package enrich

// Kind identifies one enrichment type.
type Kind string

// Enrichment kinds.
const (
	KindPodcasts Kind = "podcasts"
	KindArticles Kind = "articles"
	KindRelated  Kind = "related"
	KindFacts    Kind = "facts"
	KindVideos   Kind = "videos"
)

// AllKinds lists every enrichment kind in display order.
var AllKinds = []Kind{KindPodcasts, KindArticles, KindRelated, KindFacts, KindVideos}

// State is the per-book, per-kind enrichment state.
type State int

// Enrichment states. FailedSoft is terminal and equivalent to Done with
// empty results; it never blocks callers.
const (
	StateIdle State = iota
	StateCheckingCache
	StateFetching
	StateMerging
	StatePersisting
	StateDone
	StateFailedSoft
)

var stateNames = map[State]string{
	StateIdle:          "idle",
	StateCheckingCache: "checking-cache",
	StateFetching:      "fetching",
	StateMerging:       "merging",
	StatePersisting:    "persisting",
	StateDone:          "done",
	StateFailedSoft:    "failed-soft",
}

func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return "unknown"
}
