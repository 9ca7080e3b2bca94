package dag

// WouldCreateCycle reports whether adding the edge source -> target to
// edges would close a directed cycle. A self-loop always does. Otherwise
// the search walks outgoing edges from target and succeeds when source is
// reachable. edges is not modified.
func WouldCreateCycle[A Arc](edges []A, source, target string) bool {
	if source == target {
		return true
	}

	adj := make(map[string][]string, len(edges))
	for _, e := range edges {
		adj[e.SourceID()] = append(adj[e.SourceID()], e.TargetID())
	}

	visited := map[string]bool{target: true}
	stack := []string{target}
	for len(stack) > 0 {
		current := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if current == source {
			return true
		}
		for _, next := range adj[current] {
			if !visited[next] {
				visited[next] = true
				stack = append(stack, next)
			}
		}
	}
	return false
}
