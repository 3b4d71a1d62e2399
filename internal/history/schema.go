package history

const schema = `
-- Each row is one snapshot taken when a profile's progress was saved:
-- how many cards had state and how they were spread across the six
-- Leitner boxes at that moment.
CREATE TABLE IF NOT EXISTS saves (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    profile TEXT NOT NULL,
    saved_at DATETIME NOT NULL,
    entries INTEGER NOT NULL,
    box1 INTEGER NOT NULL DEFAULT 0,
    box2 INTEGER NOT NULL DEFAULT 0,
    box3 INTEGER NOT NULL DEFAULT 0,
    box4 INTEGER NOT NULL DEFAULT 0,
    box5 INTEGER NOT NULL DEFAULT 0,
    box6 INTEGER NOT NULL DEFAULT 0
);

CREATE INDEX IF NOT EXISTS idx_saves_profile ON saves(profile, saved_at);
`
