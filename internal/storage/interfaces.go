package storage

var (
	_ KeyValue = (*MemoryStore)(nil)
	_ KeyValue = (*FileStore)(nil)
	_ KeyValue = (*RedisStore)(nil)
	_ KeyValue = (*PostgresStore)(nil)
)
