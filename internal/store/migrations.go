package store

const createTableSQL = `
CREATE TABLE IF NOT EXISTS reports (
    id              INTEGER PRIMARY KEY AUTOINCREMENT,
    hostname        TEXT NOT NULL,
    domain          TEXT NOT NULL DEFAULT '',
    run_id          TEXT NOT NULL,
    collected_at    TEXT NOT NULL,
    stored_at       TEXT NOT NULL,
    success_count   INTEGER NOT NULL DEFAULT 0,
    skip_count      INTEGER NOT NULL DEFAULT 0,
    fail_count      INTEGER NOT NULL DEFAULT 0,
    timeout_count   INTEGER NOT NULL DEFAULT 0,
    report_json     TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_reports_hostname ON reports(hostname);
CREATE INDEX IF NOT EXISTS idx_reports_run_id ON reports(run_id);
CREATE INDEX IF NOT EXISTS idx_reports_collected_at ON reports(collected_at);
`
