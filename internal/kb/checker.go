package kb

import (
	"context"

	"github.com/ad-freiburg/question-generation/internal/model"
)

// Checker decides whether a question's entities and its answer entity form
// a connected graph in the knowledge base. It satisfies the filter's
// ConnectionChecker interface.
type Checker struct {
	client *Client
}

func NewChecker(client *Client) *Checker {
	return &Checker{client: client}
}

// Connected reports whether the question and answer entities form a
// connected graph, where an edge is a direct or one-mediator link. Date
// and number mentions carry no knowledge-base identifier and are ignored;
// any other mention without an identifier makes the question unverifiable
// and therefore not connected.
func (c *Checker) Connected(ctx context.Context, question, answer []model.EntityMention) (bool, error) {
	var ids []string
	for _, m := range append(append([]model.EntityMention{}, question...), answer...) {
		if m.Category == model.CategoryDate || m.Category == model.CategoryNumber {
			continue
		}
		if m.ExternalID == "" {
			return false, nil
		}
		ids = append(ids, m.ExternalID)
	}
	if len(ids) < 2 {
		// Nothing to connect; a lone entity cannot contradict the KB.
		return true, nil
	}

	// Depth-first search over pairwise connections. The graph must be
	// connected as a whole, not complete: ent1 <- m <- ent2 -> ent3 passes.
	visited := make([]bool, len(ids))
	stack := []int{0}
	visited[0] = true
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for i := range ids {
			if visited[i] {
				continue
			}
			ok, err := c.client.HasConnection(ctx, ids[cur], ids[i])
			if err != nil {
				return false, err
			}
			if ok {
				visited[i] = true
				stack = append(stack, i)
			}
		}
	}
	for _, v := range visited {
		if !v {
			return false, nil
		}
	}
	return true, nil
}
