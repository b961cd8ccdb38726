package search

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"sync"

	"github.com/philippgille/chromem-go"

	"github.com/skillscout/skillscout/internal/hash"
	"github.com/skillscout/skillscout/internal/log"
	"github.com/skillscout/skillscout/internal/models"
)

// ResyncBatchSize is how many documents a bulk resynchronization batch
// carries.
const ResyncBatchSize = 1000

// maxDocContent caps how much skill content is embedded per document.
const maxDocContent = 8 * 1024

// Config holds secondary index settings.
type Config struct {
	// DataDir is where the index persists. Empty leaves the index
	// unconfigured.
	DataDir string
	// APIKey is the OpenAI key used for embeddings. Empty leaves the index
	// unconfigured.
	APIKey string
}

// Hit is one search result, with the record ID already restored.
type Hit struct {
	ID    string
	Score float32
}

// Index is the chromem-backed secondary search index. A zero-config index is
// valid: every call is then a silent no-op reporting success.
type Index struct {
	cfg Config
	log *log.Logger

	mu          sync.Mutex
	initialized bool
	unavailable bool
	db          *chromem.DB
	collection  *chromem.Collection
}

// New creates the index wrapper. Construction never fails; configuration and
// reachability are checked lazily on first use.
func New(cfg Config, logger *log.Logger) *Index {
	return &Index{cfg: cfg, log: logger}
}

// Configured reports whether the index has the settings it needs.
func (ix *Index) Configured() bool {
	return ix.cfg.DataDir != "" && ix.cfg.APIKey != ""
}

// ensureInit creates the persistent store and collection at most once per
// process. Re-running it is idempotent. Returns false when the index should
// be treated as a no-op (unconfigured or unreachable).
func (ix *Index) ensureInit() bool {
	if !ix.Configured() {
		return false
	}

	ix.mu.Lock()
	defer ix.mu.Unlock()

	if ix.unavailable {
		return false
	}
	if ix.initialized {
		return true
	}

	if err := os.MkdirAll(ix.cfg.DataDir, 0755); err != nil {
		ix.log.Errorf("search index unavailable: %v", err)
		ix.unavailable = true
		return false
	}

	db, err := chromem.NewPersistentDB(ix.cfg.DataDir, false)
	if err != nil {
		ix.log.Errorf("search index unavailable: %v", err)
		ix.unavailable = true
		return false
	}

	embed := chromem.NewEmbeddingFuncOpenAI(ix.cfg.APIKey, chromem.EmbeddingModelOpenAI3Small)
	collection, err := db.GetOrCreateCollection("skills", nil, embed)
	if err != nil {
		ix.log.Errorf("search index unavailable: %v", err)
		ix.unavailable = true
		return false
	}

	ix.db = db
	ix.collection = collection
	ix.initialized = true
	return true
}

// Healthy reports whether the index is configured and reachable.
func (ix *Index) Healthy() bool {
	return ix.ensureInit()
}

// SyncSkill mirrors one record into the index. Unconfigured or unreachable
// indexes report success without doing anything; the primary store remains
// authoritative either way.
func (ix *Index) SyncSkill(ctx context.Context, skill *models.SkillRecord) error {
	if !ix.ensureInit() {
		return nil
	}

	doc := documentFrom(skill)
	if err := ix.collection.AddDocuments(ctx, []chromem.Document{doc}, runtime.NumCPU()); err != nil {
		return fmt.Errorf("sync %s: %w", skill.ID, err)
	}
	return nil
}

// Delete removes a record's document. Missing documents are fine.
func (ix *Index) Delete(ctx context.Context, id string) error {
	if !ix.ensureInit() {
		return nil
	}
	if err := ix.collection.Delete(ctx, nil, nil, documentID(id)); err != nil {
		return fmt.Errorf("delete %s: %w", id, err)
	}
	return nil
}

// Pager returns one page of records for bulk resynchronization.
type Pager func(limit, offset int) ([]models.SkillRecord, error)

// ResyncAll rebuilds the index from the primary store in fixed-size batches,
// reporting per-batch progress. Batch failures are reduced into the final
// counts instead of aborting the stream.
func (ix *Index) ResyncAll(ctx context.Context, page Pager) (synced, failed int) {
	if !ix.ensureInit() {
		return 0, 0
	}

	offset := 0
	for {
		records, err := page(ResyncBatchSize, offset)
		if err != nil {
			ix.log.Errorf("resync: load page at %d: %v", offset, err)
			return synced, failed
		}
		if len(records) == 0 {
			return synced, failed
		}

		docs := make([]chromem.Document, 0, len(records))
		for i := range records {
			docs = append(docs, documentFrom(&records[i]))
		}

		if err := ix.collection.AddDocuments(ctx, docs, runtime.NumCPU()); err != nil {
			ix.log.Errorf("resync: batch at %d failed: %v", offset, err)
			failed += len(docs)
		} else {
			synced += len(docs)
		}
		ix.log.Printf("resync: %d synced, %d failed\n", synced, failed)

		offset += len(records)
	}
}

// Query searches the index, restoring record IDs in the results.
func (ix *Index) Query(ctx context.Context, text string, limit int) ([]Hit, error) {
	if !ix.ensureInit() {
		return nil, nil
	}

	if count := ix.collection.Count(); limit > count {
		limit = count
	}
	if limit <= 0 {
		return nil, nil
	}

	results, err := ix.collection.Query(ctx, text, limit, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}

	hits := make([]Hit, 0, len(results))
	for _, r := range results {
		id := r.Metadata["record_id"]
		if id == "" {
			id = Restore(r.ID)
		}
		hits = append(hits, Hit{ID: id, Score: r.Similarity})
	}
	return hits, nil
}

// documentID derives the engine-safe document identifier. IDs that would not
// survive the sanitize round trip get a hash-based ID instead; the record ID
// travels in metadata either way.
func documentID(recordID string) string {
	if !RoundTrips(recordID) {
		return "h_" + hash.TruncatedSHA256(recordID)
	}
	return Sanitize(recordID)
}

func documentFrom(skill *models.SkillRecord) chromem.Document {
	content := skill.Content
	if len(content) > maxDocContent {
		content = content[:maxDocContent]
	}
	return chromem.Document{
		ID:      documentID(skill.ID),
		Content: skill.Name + "\n" + skill.Description + "\n" + content,
		Metadata: map[string]string{
			"record_id":   skill.ID,
			"owner":       skill.Owner,
			"repo":        skill.Repo,
			"convention":  string(skill.Convention),
			"fingerprint": skill.ContentFingerprint,
		},
	}
}
