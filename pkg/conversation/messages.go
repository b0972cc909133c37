package conversation

import (
	"fmt"

	"github.com/aretw0/venuebot/pkg/domain"
	"github.com/aretw0/venuebot/pkg/transport"
)

const (
	msgHelp = "Этот бот может помочь тебе:\n" +
		"• Найти рестораны и кафе в твоём городе;\n" +
		"• Узнать, какие кино и концерты проходят;\n" +
		"• Получить информацию о парках и музеях;\n" +
		"• А также о шоппинге, магазинах и т. д.\n\n" +
		"Для начала нажми «Куда сходить», и я спрошу у тебя город."

	msgCityNotFound  = "Извини, я не нашёл такой город 😔"
	msgWhichCity     = "Уточни, пожалуйста, какой из них:"
	msgNothingFound  = "К сожалению, ничего не нашлось 😔\nПопробуй другую категорию или другой город."
	msgFallback      = "Я не понял тебя. Используй кнопки ниже:"
	msgApology       = "Извини, что-то пошло не так. Попробуй ещё раз чуть позже."
	defaultFirstName = "друг"
)

func greetingText(name string) string {
	return fmt.Sprintf("Привет, %s! 😊", name)
}

func startText(name string) string {
	return fmt.Sprintf("Привет, %s! 👋\n\n"+
		"Я помогу тебе найти интересные места в твоём городе. Нажми «Куда сходить» для начала!", name)
}

func askCityText(name string) string {
	return fmt.Sprintf("%s, в каком городе ты находишься?", name)
}

func cityResolvedText(city string) string {
	return fmt.Sprintf("Отлично, ты в городе «%s»! 🔍\nВыбери категорию:", city)
}

func cityChosenText(city string) string {
	return fmt.Sprintf("Отлично, ты выбрал «%s»! 🔍\nТеперь выбери категорию:", city)
}

func searchingText(city, category string) string {
	return fmt.Sprintf("Ищем в городе «%s» то, что относится к «%s»…", city, category)
}

func firstName(u domain.User) string {
	if u.FirstName == "" {
		return defaultFirstName
	}
	return u.FirstName
}

func mainMenu() domain.Keyboard {
	return domain.Keyboard{
		Kind: domain.KeyboardMenu,
		Rows: [][]domain.Button{
			{{Label: transport.MenuDiscover}},
			{{Label: transport.MenuHelp}},
		},
	}
}

func removeKeyboard() domain.Keyboard {
	return domain.Keyboard{Kind: domain.KeyboardRemove}
}

func categoryKeyboard(set *domain.CategorySet) domain.Keyboard {
	kb := domain.Keyboard{Kind: domain.KeyboardInline}
	for _, c := range set.All() {
		kb.Rows = append(kb.Rows, []domain.Button{{
			Label:   c.Label,
			Payload: transport.CategoryPayload(c.Code),
		}})
	}
	return kb
}

func cityKeyboard(cities []domain.City) domain.Keyboard {
	kb := domain.Keyboard{Kind: domain.KeyboardInline}
	for _, c := range cities {
		kb.Rows = append(kb.Rows, []domain.Button{{
			Label:   c.Name,
			Payload: transport.CityPayload(c.Name),
		}})
	}
	return kb
}

// Apology is the reply sent when the dialogue could not be advanced at all.
func Apology() domain.Reply {
	return domain.Reply{Text: msgApology, Keyboard: mainMenu()}
}
