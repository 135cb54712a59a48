package prompt

import "github.com/srdjan/rlm-git-commits/internal/trailer"

// intentSynonyms maps common English verbs/nouns to one of the eight
// controlled intents (§4.5, §9: "data, not code; keep them as
// compile-time constants in one file so additions are reviewable").
var intentSynonyms = map[string]trailer.Intent{
	// fix-defect
	"fix":      trailer.IntentFixDefect,
	"fixed":    trailer.IntentFixDefect,
	"fixes":    trailer.IntentFixDefect,
	"fixing":   trailer.IntentFixDefect,
	"bug":      trailer.IntentFixDefect,
	"bugfix":   trailer.IntentFixDefect,
	"defect":   trailer.IntentFixDefect,
	"broken":   trailer.IntentFixDefect,
	"crash":    trailer.IntentFixDefect,
	"crashing": trailer.IntentFixDefect,
	"error":    trailer.IntentFixDefect,
	"repair":   trailer.IntentFixDefect,
	"patch":    trailer.IntentFixDefect,
	"regression": trailer.IntentFixDefect,

	// enable-capability
	"add":        trailer.IntentEnableCapability,
	"added":      trailer.IntentEnableCapability,
	"adding":     trailer.IntentEnableCapability,
	"feature":    trailer.IntentEnableCapability,
	"implement":  trailer.IntentEnableCapability,
	"implemented": trailer.IntentEnableCapability,
	"support":    trailer.IntentEnableCapability,
	"enable":     trailer.IntentEnableCapability,
	"introduce":  trailer.IntentEnableCapability,
	"build":      trailer.IntentEnableCapability,
	"new":        trailer.IntentEnableCapability,
	"create":     trailer.IntentEnableCapability,

	// improve-quality
	"improve":     trailer.IntentImproveQuality,
	"improved":    trailer.IntentImproveQuality,
	"improving":   trailer.IntentImproveQuality,
	"quality":     trailer.IntentImproveQuality,
	"cleanup":     trailer.IntentImproveQuality,
	"clean":       trailer.IntentImproveQuality,
	"polish":      trailer.IntentImproveQuality,
	"optimize":    trailer.IntentImproveQuality,
	"optimization": trailer.IntentImproveQuality,
	"enhance":     trailer.IntentImproveQuality,
	"harden":      trailer.IntentImproveQuality,

	// restructure
	"refactor":     trailer.IntentRestructure,
	"refactored":   trailer.IntentRestructure,
	"refactoring":  trailer.IntentRestructure,
	"restructure":  trailer.IntentRestructure,
	"reorganize":   trailer.IntentRestructure,
	"rewrite":      trailer.IntentRestructure,
	"redesign":     trailer.IntentRestructure,
	"simplify":     trailer.IntentRestructure,
	"consolidate":  trailer.IntentRestructure,
	"extract":      trailer.IntentRestructure,

	// configure-infra
	"configure":      trailer.IntentConfigureInfra,
	"config":         trailer.IntentConfigureInfra,
	"setup":          trailer.IntentConfigureInfra,
	"deploy":         trailer.IntentConfigureInfra,
	"deployment":     trailer.IntentConfigureInfra,
	"infra":          trailer.IntentConfigureInfra,
	"infrastructure": trailer.IntentConfigureInfra,
	"pipeline":       trailer.IntentConfigureInfra,
	"provision":      trailer.IntentConfigureInfra,
	"install":        trailer.IntentConfigureInfra,

	// document
	"document":      trailer.IntentDocument,
	"documentation": trailer.IntentDocument,
	"docs":          trailer.IntentDocument,
	"comment":       trailer.IntentDocument,
	"readme":        trailer.IntentDocument,
	"clarify":       trailer.IntentDocument,

	// explore
	"explore":     trailer.IntentExplore,
	"investigate": trailer.IntentExplore,
	"research":    trailer.IntentExplore,
	"spike":       trailer.IntentExplore,
	"prototype":   trailer.IntentExplore,
	"experiment":  trailer.IntentExplore,
	"evaluate":    trailer.IntentExplore,

	// resolve-blocker
	"unblock":   trailer.IntentResolveBlocker,
	"blocker":   trailer.IntentResolveBlocker,
	"blocked":   trailer.IntentResolveBlocker,
	"workaround": trailer.IntentResolveBlocker,
	"unstick":   trailer.IntentResolveBlocker,
	"mitigate":  trailer.IntentResolveBlocker,
	"bypass":    trailer.IntentResolveBlocker,
}

// stopWords are dropped from the residual keyword set (§4.5).
var stopWords = map[string]bool{
	"the": true, "a": true, "an": true, "and": true, "or": true, "but": true,
	"in": true, "on": true, "at": true, "to": true, "for": true, "of": true,
	"with": true, "is": true, "are": true, "was": true, "were": true,
	"be": true, "been": true, "being": true, "this": true, "that": true,
	"these": true, "those": true, "its": true, "as": true, "by": true,
	"from": true, "into": true, "than": true, "then": true, "so": true,
	"if": true, "do": true, "does": true, "did": true, "can": true,
	"could": true, "should": true, "would": true, "will": true, "shall": true,
	"not": true, "no": true, "we": true, "you": true, "they": true,
	"he": true, "she": true, "my": true, "our": true, "your": true,
	"about": true, "just": true, "also": true, "please": true, "there": true,
}
