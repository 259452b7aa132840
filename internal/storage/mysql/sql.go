package mysql

const upsertEntitySQL = `
INSERT INTO entities
  (id, name, review_generation_url)
VALUES
  (?, ?, ?)
ON DUPLICATE KEY UPDATE
  name                  = VALUES(name),
  review_generation_url = VALUES(review_generation_url),
  updated_at            = CURRENT_TIMESTAMP
`

const deleteReviewsSQL = `DELETE FROM reviews WHERE entity_id = ?`

// position keeps the feed's own order (most recent first).
const insertReviewsPrefix = "INSERT INTO reviews\n  (entity_id, position, author_name, content, publisher, rating, review_date, comments)\nVALUES "

const insertMissSQL = `
INSERT INTO mirror_misses (entity_id, http_status, reason)
VALUES (?, ?, ?)
ON DUPLICATE KEY UPDATE
  http_status = VALUES(http_status),
  seen_at     = CURRENT_TIMESTAMP
`

// -----------------------------------------------------------------------------
// READ QUERIES
// -----------------------------------------------------------------------------

const getEntitySQL = `
SELECT id, name, review_generation_url
FROM entities
WHERE id = ?
`

const listReviewsSQL = `
SELECT author_name, content, publisher, rating, review_date, comments
FROM reviews
WHERE entity_id = ?
ORDER BY position
LIMIT ?
`
