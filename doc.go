// Package gemgo orders a collection of study items ("gems") so that each
// one is introduced only after the facets it depends on have been taught.
//
// Every gem carries a set of unknown facets. The Orderer repeatedly looks at
// the two smallest groups of gems by unknown count, picks from the smaller
// group the gem whose facets are most common in the larger one, and reveals
// that gem's facets across the whole collection. Gems whose facets are all
// revealed are appended to the final order.
//
// # Quick Start
//
//	gems := []model.Gem{
//	    model.NewGem(0, map[int]string{0: "我们"}, "我", "们"),
//	    model.NewGem(1, map[int]string{0: "我"}, "我"),
//	}
//	o, _ := gemgo.New(gems, gemgo.WithLogger(gemgo.NewTextLogger(slog.LevelInfo)))
//	report, _ := o.Run(ctx)
//	fmt.Println(report.Stop, o.Order())
//
// # Stopping
//
// Run performs at most DefaultRounds rounds (see WithRounds). It stops early
// without error when fewer than two size classes remain (StopExhausted) or
// when no candidate scores above zero (StopNoViableSelection). Errors
// matching ErrMissingGem or ErrInconsistentIndex mean the indexes are
// corrupt and are always returned.
//
// # Persistence
//
// The gemstore package loads gem decks from and commits orders to any
// blobstore.BlobStore (memory, local disk, S3 or MinIO).
package gemgo
