package curriculum

var defaultYears = []Year{
	{Number: 1, Code: "D25", Name: "First Year", StartDate: "2025-01-01"},
	{Number: 2, Code: "D24", Name: "Second Year", StartDate: "2025-01-01"},
	{Number: 3, Code: "D23", Name: "Third Year", StartDate: "2025-01-01"},
	{Number: 4, Code: "D22", Name: "Fourth Year", StartDate: "2025-01-01"},
	{Number: 5, Code: "D21", Name: "Fifth Year", StartDate: "2025-01-01"},
}

var defaultSubjects = []Subject{
	{1, "Ilm-Un-Nahw", 5},
	{1, "Tarjama-Tul-Quran", 3},
	{1, "Arabi Adab", 2},
	{1, "Ilm-Us-Surf", 3},
	{1, "Fiqh (Urdu)", 3},
	{1, "Aqaid", 3},
	{1, "Tajveed", 1},

	{2, "Hidaya-Tun-Nahw", 5},
	{2, "Tarjama-Tul-Quran", 2.5},
	{2, "Usool-Ul-Fiqh", 2.5},
	{2, "Fiqh (Qudoori & Kanz)", 8},
	{2, "Mantiq", 2},

	{3, "Hidaya F & Ahkam Sharia", 5},
	{3, "Falsafa", 3},
	{3, "Mantiq", 2},
	{3, "Usool-Ul-Fiqh (1 Ur, 2Ar)", 3},
	{3, "Ilm-Ul-Kalam (Aqaid)", 3},
	{3, "Balagat", 3},

	{4, "Islamic Finance & Trade", 4},
	{4, "Ilm-e-Kalam & Falsafa", 3},
	{4, "Usool-Ul-Hadith", 2},
	{4, "Usool-Ul-Tafseer", 1},
	{4, "Ilhaad & Modernism (1/2)", 2},
	{4, "Complete Tafseer ul Quran (1/2)", 8},

	{5, "Sahih Bukhari", 5},
	{5, "Sahih Muslim", 5},
	{5, "Sunan Tirmizi", 2},
	{5, "Ilhaad & Modernism (2/2)", 2},
	{5, "Complete Tafseer ul Quran (2/2)", 8},
}
