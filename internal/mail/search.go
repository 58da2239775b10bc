package mail

import "github.com/emersion/go-imap/v2"

// fromAnyCriteria builds a binary recursive OR tree of FROM matches
// over the address list: one address matches directly, two are ORed
// pairwise, more are split in half and the subtrees ORed. The tree
// depth stays logarithmic in the list length, which keeps the rendered
// search expression within server limits. An empty list yields no
// predicate; callers must short-circuit before searching.
func fromAnyCriteria(addrs []string) *imap.SearchCriteria {
	switch len(addrs) {
	case 0:
		return nil
	case 1:
		return &imap.SearchCriteria{
			Header: []imap.SearchCriteriaHeaderField{
				{Key: "From", Value: addrs[0]},
			},
		}
	case 2:
		return orCriteria(
			fromAnyCriteria(addrs[:1]),
			fromAnyCriteria(addrs[1:]),
		)
	default:
		mid := len(addrs) / 2
		return orCriteria(
			fromAnyCriteria(addrs[:mid]),
			fromAnyCriteria(addrs[mid:]),
		)
	}
}

// orCriteria joins two subtrees under a single OR node.
func orCriteria(a, b *imap.SearchCriteria) *imap.SearchCriteria {
	return &imap.SearchCriteria{
		Or: [][2]imap.SearchCriteria{{*a, *b}},
	}
}

// unseenFromCriteria is the discovery predicate: unseen AND from any of
// the given addresses. Returns nil for an empty address list.
func unseenFromCriteria(addrs []string) *imap.SearchCriteria {
	criteria := fromAnyCriteria(addrs)
	if criteria == nil {
		return nil
	}
	criteria.NotFlag = append(criteria.NotFlag, imap.FlagSeen)
	return criteria
}
