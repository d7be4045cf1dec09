package store

const schema = `
CREATE TABLE IF NOT EXISTS questions (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    text TEXT NOT NULL,
    type TEXT NOT NULL CHECK (type IN ('score', 'open')),
    category TEXT NOT NULL CHECK (category IN ('daily', 'weekly')),
    is_core INTEGER NOT NULL DEFAULT 0,
    active INTEGER NOT NULL DEFAULT 1
);

CREATE TABLE IF NOT EXISTS check_ins (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    date TEXT NOT NULL UNIQUE,
    created_at TEXT NOT NULL DEFAULT (datetime('now')),
    completed INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS check_in_answers (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    check_in_id INTEGER NOT NULL REFERENCES check_ins(id),
    question_id INTEGER NOT NULL REFERENCES questions(id),
    answer_text TEXT,
    answer_score INTEGER
);

CREATE TABLE IF NOT EXISTS week_reviews (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    year INTEGER NOT NULL,
    week_number INTEGER NOT NULL,
    score INTEGER,
    went_well TEXT,
    improve TEXT,
    on_track_goals INTEGER,
    priorities_next_week TEXT,
    created_at TEXT NOT NULL DEFAULT (datetime('now')),
    UNIQUE(year, week_number)
);

CREATE TABLE IF NOT EXISTS goals (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    title TEXT NOT NULL,
    description TEXT,
    type TEXT NOT NULL CHECK (type IN ('yearly', 'quarterly')),
    quarter TEXT CHECK (quarter IN ('Q1', 'Q2', 'Q3', 'Q4')),
    year INTEGER NOT NULL,
    status TEXT NOT NULL DEFAULT 'active' CHECK (status IN ('active', 'completed', 'abandoned')),
    created_at TEXT NOT NULL DEFAULT (datetime('now')),
    updated_at TEXT NOT NULL DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS goal_updates (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    goal_id INTEGER NOT NULL REFERENCES goals(id),
    check_in_id INTEGER REFERENCES check_ins(id),
    week_review_id INTEGER REFERENCES week_reviews(id),
    note TEXT,
    created_at TEXT NOT NULL DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS goal_tasks (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    goal_id INTEGER NOT NULL REFERENCES goals(id) ON DELETE CASCADE,
    title TEXT NOT NULL,
    completed INTEGER NOT NULL DEFAULT 0,
    sort_order INTEGER NOT NULL DEFAULT 0,
    created_at TEXT NOT NULL DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS daily_tasks (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    title TEXT NOT NULL,
    date TEXT NOT NULL,
    completed INTEGER NOT NULL DEFAULT 0,
    check_in_id INTEGER REFERENCES check_ins(id),
    created_at TEXT NOT NULL DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS trackers (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    name TEXT NOT NULL,
    unit TEXT NOT NULL DEFAULT '',
    type TEXT NOT NULL DEFAULT 'number' CHECK (type IN ('number', 'boolean')),
    active INTEGER NOT NULL DEFAULT 1,
    sort_order INTEGER NOT NULL DEFAULT 0,
    created_at TEXT NOT NULL DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS tracker_entries (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    tracker_id INTEGER NOT NULL REFERENCES trackers(id) ON DELETE CASCADE,
    date TEXT NOT NULL,
    value REAL NOT NULL DEFAULT 0,
    created_at TEXT NOT NULL DEFAULT (datetime('now')),
    UNIQUE(tracker_id, date)
);

CREATE TABLE IF NOT EXISTS insights (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    prompt TEXT NOT NULL,
    response TEXT NOT NULL,
    context_type TEXT NOT NULL DEFAULT 'general' CHECK (context_type IN ('daily', 'weekly', 'quarterly', 'general')),
    created_at TEXT NOT NULL DEFAULT (datetime('now'))
);
`

type seedQuestion struct {
	text     string
	qType    string
	category string
	core     bool
}

var seedQuestions = []seedQuestion{
	// daily core
	{"Energieniveau", TypeScore, CategoryDaily, true},
	{"Wat is vandaag je #1 prioriteit?", TypeOpen, CategoryDaily, true},
	// daily pool, scores
	{"Hoe voel je je vandaag?", TypeScore, CategoryDaily, false},
	{"Hoe productief was je vandaag?", TypeScore, CategoryDaily, false},
	{"Hoe goed heb je geslapen?", TypeScore, CategoryDaily, false},
	{"Hoeveel stress ervaar je?", TypeScore, CategoryDaily, false},
	{"Hoe tevreden ben je over vandaag?", TypeScore, CategoryDaily, false},
	// daily pool, open
	{"Waar ben je dankbaar voor vandaag?", TypeOpen, CategoryDaily, false},
	{"Wat heb je vandaag geleerd?", TypeOpen, CategoryDaily, false},
	{"Wat zou je morgen anders doen?", TypeOpen, CategoryDaily, false},
	{"Wat was het hoogtepunt van je dag?", TypeOpen, CategoryDaily, false},
	{"Welk doel heb je vandaag dichterbij gebracht?", TypeOpen, CategoryDaily, false},
	{"Wat staat er in de weg van je doelen?", TypeOpen, CategoryDaily, false},
	{"Wat heb je voor iemand anders gedaan vandaag?", TypeOpen, CategoryDaily, false},
	{"Waar wil je morgen mee beginnen?", TypeOpen, CategoryDaily, false},
	// week review
	{"Hoe was je week overall?", TypeScore, CategoryWeekly, true},
	{"Wat ging er goed deze week?", TypeOpen, CategoryWeekly, true},
	{"Wat kan er beter volgende week?", TypeOpen, CategoryWeekly, true},
	{"Ben je op koers met je kwartaaldoelen?", TypeScore, CategoryWeekly, true},
	{"Wat zijn je top 3 prioriteiten voor volgende week?", TypeOpen, CategoryWeekly, true},
}
