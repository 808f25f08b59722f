package usecase

import (
	"context"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/runoshun/crew-talk/internal/domain"
	"github.com/runoshun/crew-talk/internal/engine"
)

// seedFile is the YAML layout accepted by ImportSeed.
//
//	comments:
//	  - id: c1
//	    author: alice
//	    authorID: u1
//	    text: Great talk!
//	    tab: faqs
//	    replies:
//	      - id: r1
//	        author: bob
//	        authorID: u2
//	        text: Agreed
type seedFile struct {
	Comments []domain.Comment `yaml:"comments"`
}

// ImportSeedInput contains the parameters for importing seed data.
type ImportSeedInput struct {
	Path    string // YAML file to read (ignored when Content is set)
	Content []byte // YAML content
	Replace bool   // Replace the stored collection instead of appending
	// Actor owns entries authored as "self". Without an ID they stay "self"
	// and only an actor without identity may edit them.
	Actor domain.Actor
}

// ImportSeedOutput contains the result of an import.
type ImportSeedOutput struct {
	Comments int // Imported top-level comments
	Replies  int // Imported replies
}

// ImportSeed is the use case for loading a discussion data set from YAML.
type ImportSeed struct {
	comments domain.CommentRepository
	ids      domain.IDGenerator
	clock    domain.Clock
	logger   domain.Logger
}

// NewImportSeed creates a new ImportSeed use case.
func NewImportSeed(comments domain.CommentRepository, ids domain.IDGenerator, clock domain.Clock, logger domain.Logger) *ImportSeed {
	return &ImportSeed{
		comments: comments,
		ids:      ids,
		clock:    clock,
		logger:   logger,
	}
}

// Execute parses the seed data, validates it against the stored collection
// and saves the result.
func (uc *ImportSeed) Execute(_ context.Context, in ImportSeedInput) (*ImportSeedOutput, error) {
	content := in.Content
	if content == nil {
		data, err := os.ReadFile(in.Path)
		if err != nil {
			return nil, fmt.Errorf("read seed file: %w", err)
		}
		content = data
	}

	var seed seedFile
	if err := yaml.Unmarshal(content, &seed); err != nil {
		return nil, fmt.Errorf("parse seed file: %w", err)
	}

	out := &ImportSeedOutput{}
	for i := range seed.Comments {
		c := &seed.Comments[i]
		c.Text = domain.NormalizeText(c.Text)
		if c.Text == "" {
			return nil, fmt.Errorf("comment %q: %w", c.ID, domain.ErrEmptyText)
		}
		if c.Donation != nil && *c.Donation <= 0 {
			return nil, fmt.Errorf("comment %q: %w", c.ID, domain.ErrInvalidDonation)
		}
		if c.ID == "" {
			c.ID = uc.ids.NewID()
		}
		c.AuthorID, c.AuthorHandle = claimSelf(c.AuthorID, c.AuthorHandle, in.Actor)
		for j := range c.Replies {
			r := &c.Replies[j]
			if r.ID == "" {
				r.ID = uc.ids.NewID()
			}
			r.AuthorID, r.AuthorHandle = claimSelf(r.AuthorID, r.AuthorHandle, in.Actor)
			r.Text = domain.NormalizeText(r.Text)
			if r.Text == "" {
				return nil, fmt.Errorf("reply %q of comment %q: %w", r.ID, c.ID, domain.ErrEmptyText)
			}
		}
		out.Comments++
		out.Replies += len(c.Replies)
	}

	var merged []domain.Comment
	if !in.Replace {
		existing, err := uc.comments.LoadAll()
		if err != nil {
			return nil, fmt.Errorf("load comments: %w", err)
		}
		merged = existing
	}
	merged = append(merged, seed.Comments...)

	// Building a store validates ID uniqueness and clamps like counts.
	store, err := engine.NewStore(merged, uc.ids, uc.clock, nil)
	if err != nil {
		return nil, err
	}
	store.ViewAs(in.Actor)
	if err := uc.comments.Save(store.Snapshot()); err != nil {
		return nil, fmt.Errorf("save comments: %w", err)
	}

	if uc.logger != nil {
		uc.logger.Info("", "import", fmt.Sprintf("imported %d comments, %d replies", out.Comments, out.Replies))
	}
	return out, nil
}

// claimSelf rewrites a "self" author to the importing actor.
func claimSelf(authorID, handle string, actor domain.Actor) (string, string) {
	if authorID != domain.SelfAuthorID || actor.ID == "" {
		return authorID, handle
	}
	if handle == "" {
		handle = actor.Handle()
	}
	return actor.ID, handle
}
