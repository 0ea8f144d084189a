package api

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/samber/lo"
)

// DefaultReplyDepth is how many levels of replies are kept below a top-level comment.
const DefaultReplyDepth = 3

// parseComments builds the comment forest of a listing. Non-comment nodes
// ("more" stubs and the like) and empty tombstones are left out.
func parseComments(children []thing, depth, maxDepth int) ([]Comment, error) {
	comments := make([]Comment, 0, len(children))
	for _, child := range children {
		c, ok, err := parseComment(child, depth, maxDepth)
		if err != nil {
			return nil, err
		}
		if ok {
			comments = append(comments, c)
		}
	}
	return comments, nil
}

func parseComment(t thing, depth, maxDepth int) (Comment, bool, error) {
	if t.Kind != kindComment {
		return Comment{}, false, nil
	}

	var raw rawComment
	if err := decodeData(t, &raw); err != nil {
		return Comment{}, false, err
	}

	// A deleted author with nothing left to show is noise.
	if raw.Author != nil && lo.Contains(deletedAuthors, *raw.Author) && lo.FromPtr(raw.Body) == "" {
		return Comment{}, false, nil
	}

	c := Comment{
		ID:         raw.ID,
		Author:     lo.FromPtrOr(raw.Author, DeletedAuthor),
		Body:       lo.FromPtrOr(raw.Body, RemovedBody),
		Score:      raw.Score,
		CreatedUTC: raw.CreatedUTC,
		Edited:     bool(raw.Edited),
		ParentID:   raw.ParentID,
		Replies:    []Comment{},
	}

	if depth >= maxDepth {
		return c, true, nil
	}

	replies, err := parseReplies(raw.Replies)
	if err != nil {
		return Comment{}, false, fmt.Errorf("%w: comment %s", err, raw.ID)
	}
	c.Replies, err = parseComments(replies, depth+1, maxDepth)
	if err != nil {
		return Comment{}, false, err
	}

	return c, true, nil
}

// parseReplies decodes the "replies" field, which reddit sends as "" when
// there are none and as a Listing otherwise.
func parseReplies(b json.RawMessage) ([]thing, error) {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || b[0] != '{' {
		return nil, nil
	}

	var l listing
	if err := json.Unmarshal(b, &l); err != nil {
		return nil, fmt.Errorf("%w: couldn't decode replies: %s", ErrInvalidResponse, err)
	}
	return l.Data.Children, nil
}
