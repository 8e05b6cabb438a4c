// Package capability holds the fixed vocabulary of mentoring capabilities and
// their grouping into theme clusters. Clusters give the feature scorer a
// partial-credit signal when a mentee's desired capability and a mentor's
// offered capability are related but not identical.
package capability

import "strings"

// DefaultClusters is the production grouping of the 30-item capability
// vocabulary. Every capability appears in exactly one cluster.
var DefaultClusters = map[string][]string{
	"Interpersonal & Emotional Intelligence": {
		"Empathy",
		"Emotional Intelligence",
		"Active Listening",
		"Difficult Conversations",
		"Giving Feedback",
	},
	"Leadership & Influence": {
		"People Leadership",
		"Influencing Without Authority",
		"Executive Presence",
		"Delegation",
		"Coaching Others",
	},
	"Communication & Storytelling": {
		"Public Speaking",
		"Storytelling",
		"Written Communication",
		"Presentation Skills",
		"Cross-Cultural Communication",
	},
	"Career Growth & Navigation": {
		"Career Planning",
		"Personal Branding",
		"Networking",
		"Negotiation",
		"Interview Skills",
	},
	"Strategy & Decision Making": {
		"Strategic Thinking",
		"Decision Making",
		"Problem Solving",
		"Prioritization",
		"Systems Thinking",
	},
	"Execution & Resilience": {
		"Time Management",
		"Goal Setting",
		"Resilience",
		"Managing Up",
		"Work-Life Balance",
	},
}

// Index is an immutable capability-to-cluster lookup built once at startup.
// It is injected into the scorer rather than read as a package global so
// tests can supply alternate vocabularies.
type Index struct {
	clusterByCapability map[string]string
}

// NewIndex builds an index from the default vocabulary.
func NewIndex() *Index {
	return NewIndexFrom(DefaultClusters)
}

// NewIndexFrom builds an index from an explicit cluster definition. Lookup is
// case-insensitive; the last cluster wins if a capability is listed twice.
func NewIndexFrom(clusters map[string][]string) *Index {
	idx := &Index{clusterByCapability: make(map[string]string)}
	for cluster, capabilities := range clusters {
		for _, c := range capabilities {
			idx.clusterByCapability[normalize(c)] = cluster
		}
	}
	return idx
}

// ClusterOf returns the cluster a capability belongs to. Legacy free-text
// topics that are not part of the vocabulary resolve to no cluster, which is
// a valid outcome rather than an error.
func (i *Index) ClusterOf(capability string) (string, bool) {
	cluster, ok := i.clusterByCapability[normalize(capability)]
	return cluster, ok
}

// SameCluster reports whether both capabilities resolve to the same cluster.
func (i *Index) SameCluster(a, b string) bool {
	clusterA, okA := i.ClusterOf(a)
	clusterB, okB := i.ClusterOf(b)
	return okA && okB && clusterA == clusterB
}

// Size returns the number of capabilities in the vocabulary.
func (i *Index) Size() int {
	return len(i.clusterByCapability)
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
