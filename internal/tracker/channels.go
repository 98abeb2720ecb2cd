package tracker

import (
	"strings"

	"github.com/moby/patternmatcher"
)

// channelFilter decides which channels are tracked. Channel names are
// case-insensitive. A list made only of "!" exclusions tracks every other
// channel.
type channelFilter struct {
	patterns []string
	pm       *patternmatcher.PatternMatcher
}

func newChannelFilter(patterns []string) (*channelFilter, error) {
	f := &channelFilter{}
	for _, p := range patterns {
		if p = strings.TrimSpace(p); p != "" {
			f.patterns = append(f.patterns, strings.ToLower(p))
		}
	}
	if len(f.patterns) == 0 {
		return f, nil
	}
	if onlyExclusions(f.patterns) {
		f.patterns = append([]string{"*"}, f.patterns...)
	}
	pm, err := patternmatcher.New(f.patterns)
	if err != nil {
		return nil, err
	}
	f.pm = pm
	return f, nil
}

func (f *channelFilter) tracks(channel string) bool {
	if f.pm == nil {
		return true
	}
	ok, err := f.pm.MatchesOrParentMatches(strings.ToLower(channel))
	return err == nil && ok
}

func onlyExclusions(patterns []string) bool {
	for _, p := range patterns {
		if !strings.HasPrefix(p, "!") {
			return false
		}
	}
	return true
}
