// Package obras provides a small publishing library for short written works
// ("obras") and the users who author them.
//
// It exposes a single Service interface that covers user registration, the
// work lifecycle (create, edit, style, publish, delete), listing and search,
// image attachments and the static premium plan catalog. Repository
// implementations (memory, Postgres) and blob stores for images (memory,
// filesystem, S3) are provided under subpackages.
//
// Work Status
//
// A work is either a draft or published. The only transition is
// draft -> published; publishing an already published work is a no-op.
package obras
