package availability

import "errors"

var (
	// ErrCacheGet возвращается при ошибке чтения из Redis
	ErrCacheGet = errors.New("availability.cache: failed to get entry")

	// ErrCacheSet возвращается при ошибке записи в Redis
	ErrCacheSet = errors.New("availability.cache: failed to set entry")

	// ErrCacheDelete возвращается при ошибке удаления из Redis
	ErrCacheDelete = errors.New("availability.cache: failed to delete entry")

	// ErrEncodeEntry возвращается при ошибке сериализации слотов
	ErrEncodeEntry = errors.New("availability.cache: failed to encode entry")

	// ErrDecodeEntry возвращается при ошибке десериализации слотов
	ErrDecodeEntry = errors.New("availability.cache: failed to decode entry")

	// ErrLock возвращается при ошибке работы с блокировкой сверки
	ErrLock = errors.New("availability.cache: lock operation failed")
)
