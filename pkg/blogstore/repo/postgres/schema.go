package postgres

// Schema is the DDL the repository expects. Apply it with your migration
// tooling of choice before first use.
const Schema = `
CREATE TABLE IF NOT EXISTS blogs (
    id                 UUID PRIMARY KEY,
    owner_id           TEXT NOT NULL,
    name               TEXT NOT NULL,
    description        TEXT NOT NULL,
    image              BYTEA,
    image_content_type TEXT NOT NULL DEFAULT '',
    version            BIGINT NOT NULL DEFAULT 1,
    created_at         TIMESTAMPTZ NOT NULL,
    updated_at         TIMESTAMPTZ
);

CREATE UNIQUE INDEX IF NOT EXISTS blogs_name_lower_key ON blogs (lower(name));

CREATE TABLE IF NOT EXISTS posts (
    id                 UUID PRIMARY KEY,
    blog_id            UUID NOT NULL REFERENCES blogs (id) ON DELETE CASCADE,
    owner_id           TEXT NOT NULL,
    title              TEXT NOT NULL,
    abstract           TEXT NOT NULL DEFAULT '',
    content            TEXT NOT NULL,
    slug               TEXT NOT NULL,
    ready_status       TEXT NOT NULL DEFAULT 'draft',
    tags               TEXT[] NOT NULL DEFAULT '{}',
    image              BYTEA,
    image_content_type TEXT NOT NULL DEFAULT '',
    version            BIGINT NOT NULL DEFAULT 1,
    created_at         TIMESTAMPTZ NOT NULL,
    updated_at         TIMESTAMPTZ,

    CONSTRAINT posts_blog_id_slug_key UNIQUE (blog_id, slug)
);

CREATE INDEX IF NOT EXISTS posts_blog_id_idx ON posts (blog_id);
CREATE INDEX IF NOT EXISTS posts_listing_idx ON posts (ready_status, created_at DESC, id DESC);
`
