package mysql

const insertSessionSQL = `
INSERT INTO sessions (id, model)
VALUES (?, ?)
`

const getSessionSQL = `
SELECT id, model, created_at
FROM sessions
WHERE id = ?
`

const insertMessageSQL = `
INSERT INTO messages (session_id, role, content)
VALUES (?, ?, ?)
`

// Oldest first; the history is replayed to the model in order.
const listMessagesSQL = `
SELECT role, content, created_at
FROM messages
WHERE session_id = ?
ORDER BY created_at ASC, id ASC
`
