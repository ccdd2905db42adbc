package model

// TextRequest представляет структуру запроса на преобразование текста.
// Text хранится указателем, чтобы отличить отсутствующее поле от пустой строки.
type TextRequest struct {
	Text *string `json:"text"`
}

// TextResponse представляет структуру ответа с преобразованным текстом.
type TextResponse struct {
	Result string `json:"result"`
}

// Record представляет один элемент разбитого сообщения и всегда содержит ключ "type".
type Record map[string]any

// TelegramifyResponse представляет структуру ответа /telegramify.
type TelegramifyResponse struct {
	Result []Record `json:"result"`
}

// StatusResponse представляет ответ health-check.
type StatusResponse struct {
	Message string `json:"message"`
}

// DebugResponse описывает возможности загруженной библиотеки.
type DebugResponse struct {
	AvailableFunctions []string `json:"available_functions"`
	HasMarkdownify     bool     `json:"has_markdownify"`
	HasTelegramify     bool     `json:"has_telegramify"`
	HasStandardize     bool     `json:"has_standardize"`
}

// ErrorResponse представляет тело ответа с ошибкой.
type ErrorResponse struct {
	Detail string `json:"detail"`
}
