package mysql

const insertLookupSQL = `
INSERT INTO analysis_lookups (lookup_key, entry, state, title, http_status)
VALUES (?, ?, ?, ?, ?)
`

// Most recent completed lookup per key, newest first.
const recentCompletedSQL = `
SELECT l.lookup_key, l.entry, l.state, l.title, l.http_status, l.seen_at
FROM analysis_lookups l
JOIN (
  SELECT lookup_key, MAX(id) AS id
  FROM analysis_lookups
  WHERE state = 'complete'
  GROUP BY lookup_key
) last ON last.id = l.id
ORDER BY l.seen_at DESC, l.id DESC
LIMIT ?
`
