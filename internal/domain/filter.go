package domain

import "slices"

// FilterPosts removes, in place, every post whose community or "u_"-prefixed
// author is in filters. It returns how many posts were removed and whether
// none are left. An empty input reports (0, false).
func FilterPosts(posts *[]Post, filters map[string]struct{}) (removed uint64, allRemoved bool) {
	before := len(*posts)
	if before == 0 {
		return 0, false
	}

	*posts = slices.DeleteFunc(*posts, func(p Post) bool {
		if _, ok := filters[p.Community]; ok {
			return true
		}
		_, ok := filters["u_"+p.Author.Name]
		return ok
	})

	return uint64(before - len(*posts)), len(*posts) == 0
}

// FilterNSFW removes NSFW posts in place and returns how many were removed.
func FilterNSFW(posts *[]Post) uint64 {
	before := len(*posts)
	*posts = slices.DeleteFunc(*posts, func(p Post) bool { return p.NSFW })
	return uint64(before - len(*posts))
}
