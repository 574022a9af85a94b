// Package plugin связывает геометрическое ядро с коллабораторами хоста:
// сканирование сцен, жизненный цикл маркеров замены, тайловый оверлей и
// подмена сообщений чата. Философия ошибок одна на всех: никогда не падать
// видимо — деградировать до бездействия или наименее удивительного фолбэка.
package plugin

// Плоские, чисто косметические пузыри на поверхности воды.
// Просто визуальный шум.
var flatBubbleIDs = map[int]struct{}{
	60356: {}, // Плоские пузыри (4 тайла, anim 13537)
	60357: {}, // Плоские пузыри (4 тайла, anim 13538)
	60358: {}, // Плоские пузыри (1 тайл, anim 13539)
}

// Размер футпринта (в тайлах) для каждого 3D пузыря-барьера.
// Используется и для плотной расстановки моделей, и для тайловых маркеров.
var barrierBubbleSizes = map[int]int{
	60359: 1, // 3D пузырь (1 тайл, anim 13533)
	60360: 2, // 3D пузырь (4 тайла, anim 13536)
	60361: 3, // 3D пузырь (9 тайлов, anim 13532)
	60362: 3, // 3D пузырь (9 тайлов, anim 13534)
	60363: 3, // 3D пузырь (9 тайлов, anim 13535)
}

func isFlatBubble(id int) bool {
	_, ok := flatBubbleIDs[id]
	return ok
}

func isBarrierBubble(id int) bool {
	_, ok := barrierBubbleSizes[id]
	return ok
}
