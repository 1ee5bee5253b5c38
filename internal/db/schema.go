package db

// SchemaSQL contains the database schema initialization SQL.
const SchemaSQL = `
    -- ==========================================================================
    -- QUEUE_ITEM TABLE (content generation work list)
    -- ==========================================================================
    DEFINE TABLE IF NOT EXISTS queue_item SCHEMAFULL;
    DEFINE FIELD IF NOT EXISTS content_type ON queue_item TYPE string;
    DEFINE FIELD IF NOT EXISTS status ON queue_item TYPE string DEFAULT "pending";
    DEFINE FIELD IF NOT EXISTS topic ON queue_item TYPE string;
    DEFINE FIELD IF NOT EXISTS cluster ON queue_item TYPE option<string>;
    DEFINE FIELD IF NOT EXISTS attempts ON queue_item TYPE int DEFAULT 0;
    DEFINE FIELD IF NOT EXISTS fail_reason ON queue_item TYPE option<string>;
    DEFINE FIELD IF NOT EXISTS created ON queue_item TYPE datetime DEFAULT time::now();
    DEFINE FIELD IF NOT EXISTS last_attempt ON queue_item TYPE option<datetime>;

    DEFINE INDEX IF NOT EXISTS queue_status_type ON queue_item FIELDS status, content_type;
    DEFINE INDEX IF NOT EXISTS queue_created ON queue_item FIELDS created;

    -- ==========================================================================
    -- COVERAGE TABLE (target query fulfillment, unique per cluster)
    -- ==========================================================================
    DEFINE TABLE IF NOT EXISTS coverage SCHEMAFULL;
    DEFINE FIELD IF NOT EXISTS query ON coverage TYPE string;
    DEFINE FIELD IF NOT EXISTS cluster ON coverage TYPE string;
    DEFINE FIELD IF NOT EXISTS intent ON coverage TYPE option<string>;
    DEFINE FIELD IF NOT EXISTS covered ON coverage TYPE bool DEFAULT false;
    DEFINE FIELD IF NOT EXISTS content_id ON coverage TYPE option<string>;
    DEFINE FIELD IF NOT EXISTS synced ON coverage TYPE datetime DEFAULT time::now();

    DEFINE INDEX IF NOT EXISTS coverage_cluster_query ON coverage FIELDS cluster, query UNIQUE;
    DEFINE INDEX IF NOT EXISTS coverage_covered ON coverage FIELDS covered;

    -- ==========================================================================
    -- CONTENT TABLE (generated documents, envelope + typed payload)
    -- ==========================================================================
    DEFINE TABLE IF NOT EXISTS content SCHEMALESS;
    DEFINE FIELD IF NOT EXISTS type ON content TYPE string;
    DEFINE FIELD IF NOT EXISTS title ON content TYPE string;
    DEFINE FIELD IF NOT EXISTS slug ON content TYPE string;
    DEFINE FIELD IF NOT EXISTS status ON content TYPE string DEFAULT "published";
    DEFINE FIELD IF NOT EXISTS created ON content TYPE datetime DEFAULT time::now();
    DEFINE FIELD IF NOT EXISTS published ON content TYPE option<datetime>;

    -- Slug uniqueness is per type: the same slug may appear under blog and faq
    DEFINE FIELD IF NOT EXISTS slug_key ON content VALUE <string>string::concat(type, ":", slug);
    DEFINE INDEX IF NOT EXISTS content_slug_key ON content FIELDS slug_key UNIQUE;
    DEFINE INDEX IF NOT EXISTS content_type_status ON content FIELDS type, status;
    DEFINE INDEX IF NOT EXISTS content_published ON content FIELDS published;

    -- ==========================================================================
    -- LEDGER TABLE (append-only budget spend, one row per attempt)
    -- ==========================================================================
    DEFINE TABLE IF NOT EXISTS ledger SCHEMAFULL;
    DEFINE FIELD IF NOT EXISTS day ON ledger TYPE string;
    DEFINE FIELD IF NOT EXISTS content_type ON ledger TYPE string;
    DEFINE FIELD IF NOT EXISTS estimated_cost ON ledger TYPE float;
    DEFINE FIELD IF NOT EXISTS actual_cost ON ledger TYPE option<float>;
    DEFINE FIELD IF NOT EXISTS created ON ledger TYPE datetime DEFAULT time::now();

    DEFINE INDEX IF NOT EXISTS ledger_day ON ledger FIELDS day;

    -- ==========================================================================
    -- BREAKER TABLE (one record per external dependency)
    -- ==========================================================================
    DEFINE TABLE IF NOT EXISTS breaker SCHEMAFULL;
    DEFINE FIELD IF NOT EXISTS dependency ON breaker TYPE string;
    DEFINE FIELD IF NOT EXISTS state ON breaker TYPE string DEFAULT "closed";
    DEFINE FIELD IF NOT EXISTS failures ON breaker TYPE int DEFAULT 0;
    DEFINE FIELD IF NOT EXISTS last_failure ON breaker TYPE option<datetime>;
    DEFINE FIELD IF NOT EXISTS cooldown_until ON breaker TYPE option<datetime>;
    DEFINE FIELD IF NOT EXISTS trial_pending ON breaker TYPE bool DEFAULT false;

    -- ==========================================================================
    -- PIPELINE_EVENT TABLE (append-only action log)
    -- ==========================================================================
    DEFINE TABLE IF NOT EXISTS pipeline_event SCHEMALESS;
    DEFINE FIELD IF NOT EXISTS timestamp ON pipeline_event TYPE datetime DEFAULT time::now();
    DEFINE FIELD IF NOT EXISTS phase ON pipeline_event TYPE string;
    DEFINE FIELD IF NOT EXISTS severity ON pipeline_event TYPE string;
    DEFINE FIELD IF NOT EXISTS message ON pipeline_event TYPE string;

    DEFINE INDEX IF NOT EXISTS event_timestamp ON pipeline_event FIELDS timestamp;

    -- ==========================================================================
    -- BEACON_EVENT TABLE (tracking beacons, allowlisted fields only)
    -- ==========================================================================
    DEFINE TABLE IF NOT EXISTS beacon_event SCHEMALESS;
    DEFINE FIELD IF NOT EXISTS type ON beacon_event TYPE string;
    DEFINE FIELD IF NOT EXISTS received ON beacon_event TYPE datetime DEFAULT time::now();

    DEFINE INDEX IF NOT EXISTS beacon_received ON beacon_event FIELDS received;
`
