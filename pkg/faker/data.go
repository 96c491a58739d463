// Copyright 2025 Mockd LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package faker

// =============================================================================
// Identity
// =============================================================================

var firstNames = []string{
	"John", "Jane", "Alex", "Maria", "Sam", "Taylor", "Jordan", "Morgan",
	"Alice", "Charlie", "Diana", "Edward", "Fiona", "Priya", "Kenji", "Amara",
}

var lastNames = []string{
	"Smith", "Johnson", "Williams", "Brown", "Jones", "Garcia", "Miller", "Davis",
	"Wilson", "Moore", "Nakamura", "Okafor", "Rossi", "Novak", "Silva", "Kim",
}

var jobLevels = []string{"Senior", "Junior", "Lead", "Principal", "Staff"}

var jobFields = []string{
	"Software", "Data", "Product", "Marketing", "Sales",
	"Operations", "Security", "Infrastructure", "Quality", "Research",
}

var jobRoles = []string{
	"Engineer", "Analyst", "Manager", "Designer", "Architect",
	"Consultant", "Developer", "Specialist", "Coordinator", "Strategist",
}

// =============================================================================
// Location
// =============================================================================

var streets = []string{"Main St", "Oak Ave", "Elm St", "Park Blvd", "Cedar Ln", "Maple Dr", "Pine Rd", "Lake Way"}

var cities = []string{
	"New York", "Los Angeles", "Chicago", "Houston", "Phoenix",
	"San Francisco", "Seattle", "Austin", "Denver", "Boston",
}

var countries = []string{"US", "GB", "CA", "DE", "FR", "JP", "AU", "BR", "IN", "NL"}

// =============================================================================
// Internet
// =============================================================================

var emailDomains = []string{"example.com", "test.io", "mock.io", "demo.org"}

var userAgents = []string{
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.2 Safari/605.1.15",
	"Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
	"Mozilla/5.0 (iPhone; CPU iPhone OS 17_2 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.2 Mobile/15E148 Safari/604.1",
}

// =============================================================================
// Commerce and finance
// =============================================================================

var companies = []string{"Acme", "Globex", "Initech", "Umbrella", "Stark", "Wayne", "Cyberdyne", "Tyrell"}

var companySuffixes = []string{"Corp", "Inc", "LLC", "Ltd", "Group"}

var currencyCodes = []string{
	"USD", "EUR", "GBP", "JPY", "AUD", "CAD", "CHF", "CNY",
	"SEK", "NZD", "MXN", "SGD", "HKD", "NOK", "KRW", "INR",
}

var productAdjectives = []string{
	"Rustic", "Elegant", "Handcrafted", "Refined", "Sleek",
	"Practical", "Modern", "Vintage", "Premium", "Compact",
}

var productMaterials = []string{
	"Steel", "Wooden", "Granite", "Rubber", "Cotton",
	"Leather", "Bamboo", "Bronze", "Ceramic", "Glass",
}

var productNouns = []string{
	"Chair", "Table", "Lamp", "Keyboard", "Mouse",
	"Backpack", "Watch", "Wallet", "Speaker", "Mug",
}

var colors = []string{
	"Crimson", "Azure", "Emerald", "Ivory", "Coral",
	"Indigo", "Amber", "Jade", "Scarlet", "Teal",
}

// =============================================================================
// Text
// =============================================================================

var words = []string{
	"alpha", "beta", "gamma", "delta", "epsilon", "zeta", "theta", "lambda",
	"sigma", "omega", "quick", "brown", "fox", "lazy", "river", "stone",
	"modern", "approach", "scalable", "signal", "harbor", "vector", "meadow", "orbit",
}
