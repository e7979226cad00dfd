package pack

import "github.com/lox/triviaforbots/internal/game"

// Sample returns the built-in pack used when no pack file is configured,
// so a freshly started server is playable out of the box.
func Sample() *game.Pack {
	p := &game.Pack{
		Title: "General Knowledge",
		Categories: []game.Category{
			{
				Name: "World Capitals",
				Clues: []game.Clue{
					{Value: 100, Prompt: "This city on the Seine is the capital of France", Answer: "Paris"},
					{Value: 200, Prompt: "Japan's capital, the world's most populous metropolitan area", Answer: "Tokyo"},
					{Value: 300, Prompt: "This Canadian capital sits on the river of the same name", Answer: "Ottawa"},
					{Value: 400, Prompt: "Australia's purpose-built capital city", Answer: "Canberra"},
					{Value: 500, Prompt: "The world's highest capital city, in Bolivia", Answer: "La Paz"},
				},
			},
			{
				Name: "Science",
				Clues: []game.Clue{
					{Value: 100, Prompt: "H2O is the chemical formula for this substance", Answer: "Water"},
					{Value: 200, Prompt: "This force keeps planets in orbit around the sun", Answer: "Gravity"},
					{Value: 300, Prompt: "The powerhouse of the cell", Answer: "Mitochondria"},
					{Value: 400, Prompt: "This element's symbol is Au", Answer: "Gold"},
					{Value: 500, Prompt: "The speed of light is roughly this many kilometers per second", Answer: "300000",
						Choices: []string{"150,000", "300,000", "450,000", "600,000"}, CorrectChoice: 1},
				},
			},
			{
				Name: "Literature",
				Clues: []game.Clue{
					{Value: 100, Prompt: "Author of Romeo and Juliet", Answer: "William Shakespeare"},
					{Value: 200, Prompt: "This Melville novel opens with \"Call me Ishmael\"", Answer: "Moby Dick"},
					{Value: 300, Prompt: "George Orwell's dystopia set in Airstrip One", Answer: "1984",
						Choices: []string{"Brave New World", "1984", "Fahrenheit 451", "Animal Farm"}, CorrectChoice: 1},
					{Value: 400, Prompt: "The Colombian Nobel laureate who wrote One Hundred Years of Solitude", Answer: "Gabriel Garcia Marquez"},
					{Value: 500, Prompt: "This Russian's novels include Crime and Punishment", Answer: "Fyodor Dostoevsky"},
				},
			},
			{
				Name: "History",
				Clues: []game.Clue{
					{Value: 100, Prompt: "The year World War II ended", Answer: "1945",
						Choices: []string{"1943", "1944", "1945", "1946"}, CorrectChoice: 2},
					{Value: 200, Prompt: "This wall dividing a German city fell in 1989", Answer: "The Berlin Wall"},
					{Value: 300, Prompt: "First president of the United States", Answer: "George Washington"},
					{Value: 400, Prompt: "The ancient wonder located in Giza", Answer: "The Great Pyramid"},
					{Value: 500, Prompt: "This 1215 charter limited the English crown's power", Answer: "Magna Carta"},
				},
			},
			{
				Name: "Geography",
				Clues: []game.Clue{
					{Value: 100, Prompt: "The largest ocean on Earth", Answer: "Pacific Ocean"},
					{Value: 200, Prompt: "This river is the longest in South America", Answer: "Amazon"},
					{Value: 300, Prompt: "The desert covering much of northern Africa", Answer: "Sahara"},
					{Value: 400, Prompt: "Earth's tallest mountain above sea level", Answer: "Mount Everest"},
					{Value: 500, Prompt: "This strait separates Asia from North America", Answer: "Bering Strait"},
				},
			},
			{
				Name: "Technology",
				Clues: []game.Clue{
					{Value: 100, Prompt: "\"WWW\" stands for this", Answer: "World Wide Web"},
					{Value: 200, Prompt: "The co-founder of Apple alongside Steve Wozniak", Answer: "Steve Jobs"},
					{Value: 300, Prompt: "This Google operating system powers most smartphones", Answer: "Android"},
					{Value: 400, Prompt: "The 'C' in CPU", Answer: "Central",
						Choices: []string{"Computer", "Central", "Core", "Circuit"}, CorrectChoice: 1},
					{Value: 500, Prompt: "This British mathematician's test measures machine intelligence", Answer: "Alan Turing"},
				},
			},
		},
		DailyDoubles: []game.CellKey{
			{Category: 1, Index: 3},
			{Category: 4, Index: 4},
		},
		FinalCategory: "Space Exploration",
		FinalClue: game.Clue{
			Value:  1000,
			Prompt: "In 1969 this Apollo 11 astronaut became the first human to walk on the moon",
			Answer: "Neil Armstrong",
		},
	}
	return p
}
