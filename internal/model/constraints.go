package model

// Constraints are applied after AutoMigrate. Each statement is idempotent.
var Constraints = []string{
	// Deleting a post removes its reviews, including ones committed while
	// the delete waited for the post row.
	`DO $$
BEGIN
	IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'fk_reviews_post') THEN
		ALTER TABLE reviews
			ADD CONSTRAINT fk_reviews_post FOREIGN KEY (post_id) REFERENCES posts (id) ON DELETE CASCADE;
	END IF;
END $$;`,
}

// Indexes are applied after AutoMigrate and are not required for
// correctness.
var Indexes = []string{
	`CREATE INDEX IF NOT EXISTS idx_posts_review_ids ON posts USING gin (review_ids);`,
	`CREATE INDEX IF NOT EXISTS idx_posts_created_at ON posts (created_at DESC);`,
}
