package catalog

import "github.com/soramae/waxline/internal/domain/track"

// seedTracks is the bundled starter library, applied once on first run.
var seedTracks = []track.Track{
	// Rock
	{Title: "Bohemian Rhapsody", Artist: "Queen", Album: "A Night at the Opera", DurationSeconds: 355, Genre: "Rock"},
	{Title: "Stairway to Heaven", Artist: "Led Zeppelin", Album: "Led Zeppelin IV", DurationSeconds: 482, Genre: "Rock"},
	{Title: "Hotel California", Artist: "Eagles", Album: "Hotel California", DurationSeconds: 391, Genre: "Rock"},
	{Title: "Sweet Child O' Mine", Artist: "Guns N' Roses", Album: "Appetite for Destruction", DurationSeconds: 356, Genre: "Rock"},
	{Title: "Smells Like Teen Spirit", Artist: "Nirvana", Album: "Nevermind", DurationSeconds: 301, Genre: "Rock"},
	{Title: "Wonderwall", Artist: "Oasis", Album: "(What's the Story) Morning Glory?", DurationSeconds: 258, Genre: "Rock"},
	{Title: "Don't Stop Believin'", Artist: "Journey", Album: "Escape", DurationSeconds: 251, Genre: "Rock"},

	// Pop
	{Title: "Shape of You", Artist: "Ed Sheeran", Album: "÷", DurationSeconds: 233, Genre: "Pop"},
	{Title: "Blinding Lights", Artist: "The Weeknd", Album: "After Hours", DurationSeconds: 200, Genre: "Pop"},
	{Title: "Watermelon Sugar", Artist: "Harry Styles", Album: "Fine Line", DurationSeconds: 174, Genre: "Pop"},
	{Title: "Levitating", Artist: "Dua Lipa", Album: "Future Nostalgia", DurationSeconds: 203, Genre: "Pop"},
	{Title: "Stay", Artist: "The Kid LAROI & Justin Bieber", Album: "F*CK LOVE 3", DurationSeconds: 141, Genre: "Pop"},
	{Title: "Bad Guy", Artist: "Billie Eilish", Album: "When We All Fall Asleep, Where Do We Go?", DurationSeconds: 194, Genre: "Pop"},
	{Title: "As It Was", Artist: "Harry Styles", Album: "Harry's House", DurationSeconds: 167, Genre: "Pop"},

	// Electronic
	{Title: "One More Time", Artist: "Daft Punk", Album: "Discovery", DurationSeconds: 320, Genre: "Electronic"},
	{Title: "Strobe", Artist: "deadmau5", Album: "For Lack of a Better Name", DurationSeconds: 636, Genre: "Electronic"},
	{Title: "Levels", Artist: "Avicii", Album: "Levels", DurationSeconds: 202, Genre: "Electronic"},
	{Title: "Midnight City", Artist: "M83", Album: "Hurry Up, We're Dreaming", DurationSeconds: 242, Genre: "Electronic"},
	{Title: "Sandstorm", Artist: "Darude", Album: "Before the Storm", DurationSeconds: 225, Genre: "Electronic"},
	{Title: "Bangarang", Artist: "Skrillex", Album: "Bangarang", DurationSeconds: 194, Genre: "Electronic"},

	// Jazz
	{Title: "Take Five", Artist: "Dave Brubeck", Album: "Time Out", DurationSeconds: 324, Genre: "Jazz"},
	{Title: "So What", Artist: "Miles Davis", Album: "Kind of Blue", DurationSeconds: 562, Genre: "Jazz"},
	{Title: "Autumn Leaves", Artist: "Cannonball Adderley", Album: "Somethin' Else", DurationSeconds: 312, Genre: "Jazz"},
	{Title: "Blue Train", Artist: "John Coltrane", Album: "Blue Train", DurationSeconds: 423, Genre: "Jazz"},
	{Title: "All of Me", Artist: "Billie Holiday", Album: "The Complete Billie Holiday", DurationSeconds: 213, Genre: "Jazz"},

	// Classical
	{Title: "Moonlight Sonata", Artist: "Ludwig van Beethoven", Album: "Piano Sonata No. 14", DurationSeconds: 900, Genre: "Classical"},
	{Title: "Four Seasons - Spring", Artist: "Antonio Vivaldi", Album: "The Four Seasons", DurationSeconds: 210, Genre: "Classical"},
	{Title: "Claire de Lune", Artist: "Claude Debussy", Album: "Suite Bergamasque", DurationSeconds: 300, Genre: "Classical"},
	{Title: "Canon in D", Artist: "Johann Pachelbel", Album: "Pachelbel's Canon", DurationSeconds: 252, Genre: "Classical"},

	// Hip-Hop
	{Title: "Lose Yourself", Artist: "Eminem", Album: "8 Mile Soundtrack", DurationSeconds: 326, Genre: "Hip-Hop"},
	{Title: "Sicko Mode", Artist: "Travis Scott", Album: "Astroworld", DurationSeconds: 312, Genre: "Hip-Hop"},
	{Title: "God's Plan", Artist: "Drake", Album: "Scorpion", DurationSeconds: 198, Genre: "Hip-Hop"},
	{Title: "Juice", Artist: "Lizzo", Album: "Cuz I Love You", DurationSeconds: 223, Genre: "Hip-Hop"},

	// R&B/Soul
	{Title: "A Change Is Gonna Come", Artist: "Sam Cooke", Album: "Ain't That Good News", DurationSeconds: 199, Genre: "R&B"},
	{Title: "What's Going On", Artist: "Marvin Gaye", Album: "What's Going On", DurationSeconds: 233, Genre: "R&B"},
	{Title: "Superstition", Artist: "Stevie Wonder", Album: "Talking Book", DurationSeconds: 266, Genre: "R&B"},
}
