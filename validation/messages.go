package validation

// Field error messages returned to API clients
const (
	MsgRequired             = "Обязательное поле."
	MsgMinValue             = "Значение должно быть больше или равно единице"
	MsgTagsNotUnique        = "Укажите уникальные теги"
	MsgIngredientsNotUnique = "Ингредиенты в списке должны быть уникальны"
	MsgNotUnique            = "Значения в списке должны быть уникальны"
	MsgEmptyList            = "Список не может быть пустым."
	MsgInvalidEmail         = "Введите правильный адрес электронной почты."
	MsgInvalidColor         = "Введите цвет в формате HEX (#RRGGBB)."
	MsgInvalidSlug          = "Допустимы только латинские буквы, цифры, дефис и подчёркивание."
	MsgInvalidUsername      = "Допустимы только буквы, цифры и символы @/./+/-/_."
	MsgInvalidType          = "Некорректный тип значения."
	MsgInvalidJSON          = "Некорректный JSON в теле запроса."
	MsgInvalidImage         = "Загрузите корректное изображение в формате data:image/<тип>;base64,<данные>."
	MsgMinLength            = "Убедитесь, что это значение содержит не менее %s символов."
	MsgMaxLength            = "Убедитесь, что это значение содержит не более %s символов."
	MsgObjectDoesNotExist   = "Недопустимый первичный ключ \"%d\" - объект не существует."
	MsgEmailTaken           = "Пользователь с таким email уже существует."
	MsgUsernameTaken        = "Пользователь с таким username уже существует."
	MsgWrongPassword        = "Неверный текущий пароль."
	MsgTagNameTaken         = "Тег с таким названием уже существует."
	MsgTagSlugTaken         = "Тег с таким slug уже существует."
	MsgIngredientTaken      = "Ингредиент с таким названием и единицей измерения уже существует."
	MsgInvalidValue         = "Некорректное значение (%s)."

	// NonFieldErrors keys errors that do not belong to a single field
	NonFieldErrors = "non_field_errors"
)
