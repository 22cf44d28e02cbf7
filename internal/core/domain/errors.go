package domain

import "errors"

// Ошибки уровня хранилища. Отсутствие записи ошибкой не считается -
// точечное чтение возвращает nil, вызывающая сторона обязана это проверять.
var (
	// ErrStoreUnavailable - не удалось открыть нижележащее хранилище.
	// Операция завершается неудачей, автоматических ретраев нет.
	ErrStoreUnavailable = errors.New("property store is unavailable")

	// ErrWriteConflict - хранилище отклонило запись (например, дубликат ключа).
	// Пробрасывается вызывающей стороне как есть, без отката и повторов.
	ErrWriteConflict = errors.New("property store rejected the write")
)
