package geom

// Полный оборот делится на 2048 единиц ориентации; четверть оборота — 512.
const (
	FullTurn    = 2048
	QuarterTurn = 512
)

// Orientation возвращает стабильную псевдослучайную ориентацию тайла
// в диапазоне [0, 2047], либо одно из {0, 512, 1024, 1536} в режиме
// привязки к сетке.
//
// Чистая функция от (x, y) и флага: повторный вызов с теми же аргументами
// обязан вернуть то же значение — на этом держится стабильность маркеров
// между повторными сканированиями сцены и загрузками чанков. План не
// участвует в хеше намеренно: ориентация — косметическое свойство
// горизонтальной позиции.
//
// Арифметика — 32-битная знаковая с переполнением по модулю 2^32,
// сдвиг арифметический. Константы фиксированы: от них зависит узор
// ориентаций, который игроки уже видят.
func Orientation(x, y int, gridAligned bool) int {
	h := int32(x)*374761393 + int32(y)*668265263
	h = (h ^ (h >> 13)) * 1274126177

	masked := h & 0x7FFFFFFF

	if gridAligned {
		return int(masked%4) * QuarterTurn
	}

	return int(masked % FullTurn)
}
