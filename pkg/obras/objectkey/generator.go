package objectkey

import (
	"fmt"
	"path"
	"strings"

	"github.com/google/uuid"
)

// Generator defines the interface for image object key strategies
type Generator interface {
	// GenerateKey creates a new, unique object key for an image of a work
	GenerateKey(workID int64, fileName string) string
}

// PerWorkGenerator groups images under their work:
// obras/{workID}/images/{uuid}-{filename}
type PerWorkGenerator struct {
	newID func() string
}

func NewPerWorkGenerator() *PerWorkGenerator {
	return &PerWorkGenerator{newID: uuid.NewString}
}

func (g *PerWorkGenerator) GenerateKey(workID int64, fileName string) string {
	return fmt.Sprintf("obras/%d/images/%s-%s", workID, g.newID(), baseName(fileName))
}

// ShardedGenerator spreads images over Git-style shard directories:
// images/ab/cd1234ef5678_{filename}
type ShardedGenerator struct {
	// ShardLength controls how many characters to use for sharding (default: 2)
	ShardLength int
	newID       func() string
}

func NewShardedGenerator() *ShardedGenerator {
	return &ShardedGenerator{ShardLength: 2, newID: uuid.NewString}
}

func (g *ShardedGenerator) GenerateKey(workID int64, fileName string) string {
	id := strings.ReplaceAll(g.newID(), "-", "")

	shard := g.ShardLength
	if shard <= 0 || shard > len(id) {
		shard = 2
	}

	return fmt.Sprintf("images/%s/%s_%s", id[:shard], id[shard:], baseName(fileName))
}

// New returns the generator for a strategy name: "per-work" (default) or "sharded".
func New(strategy string) (Generator, error) {
	switch strategy {
	case "", "per-work":
		return NewPerWorkGenerator(), nil
	case "sharded":
		return NewShardedGenerator(), nil
	default:
		return nil, fmt.Errorf("unknown object key strategy: %s", strategy)
	}
}

// baseName drops any directory part of the uploaded name and makes it safe for keys.
func baseName(fileName string) string {
	name := path.Base("/" + strings.ReplaceAll(fileName, "\\", "/"))
	if name == "/" || name == "." || name == ".." {
		return "image"
	}
	return sanitizeFilename(name)
}

func sanitizeFilename(filename string) string {
	replacer := strings.NewReplacer(
		":", "_",
		"*", "_",
		"?", "_",
		"\"", "_",
		"<", "_",
		">", "_",
		"|", "_",
		" ", "_",
	)
	return replacer.Replace(filename)
}
