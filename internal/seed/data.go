package seed

import (
	"github.com/bobmcallan/paisa-buddy/internal/fraud"
	"github.com/bobmcallan/paisa-buddy/internal/leaderboard"
	"github.com/bobmcallan/paisa-buddy/internal/market"
	"github.com/bobmcallan/paisa-buddy/internal/models"
	"github.com/shopspring/decimal"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// Listings is the discoverable asset catalogue.
func Listings() []market.Listing {
	return []market.Listing{
		{Ticker: "RELIANCE", Name: "Reliance Industries", Type: models.AssetStock, Price: d("2850.55"), Change: d("1.2"), Sector: "Energy"},
		{Ticker: "TCS", Name: "Tata Consultancy Services", Type: models.AssetStock, Price: d("3855.20"), Change: d("-0.5"), Sector: "IT"},
		{Ticker: "HDFCBANK", Name: "HDFC Bank", Type: models.AssetStock, Price: d("1480.75"), Change: d("2.1"), Sector: "Banking"},
		{Ticker: "INFY", Name: "Infosys", Type: models.AssetStock, Price: d("1550.00"), Change: d("-1.8"), Sector: "IT"},
		{Ticker: "ICICIBANK", Name: "ICICI Bank", Type: models.AssetStock, Price: d("1100.45"), Change: d("0.9"), Sector: "Banking"},
		{Ticker: "PPFCF", Name: "Parag Parikh Flexi Cap Fund", Type: models.AssetMutualFund, Price: d("75.50"), Change: d("0.8"), Sector: "Flexi Cap"},
		{Ticker: "AXISBLUE", Name: "Axis Bluechip Fund", Type: models.AssetMutualFund, Price: d("52.80"), Change: d("1.1"), Sector: "Large Cap"},
		{Ticker: "QUANTSC", Name: "Quant Small Cap Fund", Type: models.AssetMutualFund, Price: d("250.70"), Change: d("2.5"), Sector: "Small Cap"},
	}
}

// Portfolio is the starter portfolio with the given opening cash.
func Portfolio(cash decimal.Decimal) models.Portfolio {
	held := []struct {
		ticker string
		qty    int64
		avg    string
	}{
		{"RELIANCE", 10, "2800.00"},
		{"TCS", 15, "3800.00"},
		{"HDFCBANK", 20, "1500.00"},
		{"PPFCF", 50, "70.00"},
		{"AXISBLUE", 100, "50.00"},
	}

	catalog := market.NewCatalog(Listings())
	p := models.Portfolio{Cash: cash}
	for _, h := range held {
		l, _ := catalog.Lookup(h.ticker)
		p.Positions = append(p.Positions, models.Position{
			ID:           l.Ticker,
			Name:         l.Name,
			Ticker:       l.Ticker,
			Type:         l.Type,
			Sector:       l.Sector,
			Quantity:     h.qty,
			AveragePrice: d(h.avg),
			CurrentPrice: l.Price,
		})
	}
	p.Contributed = p.Capital()
	return p
}

// Budget is the starter budget.
func Budget() models.Budget {
	return models.Budget{
		Transactions: []models.Transaction{
			{ID: "1", Type: models.Income, Category: "Salary", Amount: d("50000"), Date: "2024-07-01"},
			{ID: "2", Type: models.Expense, Category: "Rent", Amount: d("15000"), Date: "2024-07-02"},
			{ID: "3", Type: models.Expense, Category: "Food", Amount: d("8000"), Date: "2024-07-05"},
			{ID: "4", Type: models.Expense, Category: "Travel", Amount: d("3000"), Date: "2024-07-10"},
		},
		Goals: []models.Goal{
			{ID: "1", Name: "Goa Trip", TargetAmount: d("25000"), SavedAmount: d("10000")},
			{ID: "2", Name: "New Phone", TargetAmount: d("80000"), SavedAmount: d("35000")},
		},
	}
}

// Peers are the leaderboard competitors.
func Peers() []leaderboard.Peer {
	return []leaderboard.Peer{
		{Name: "Aarav Sharma", PortfolioValue: d("125830.50"), Change: d("25.83"), Avatar: "https://picsum.photos/seed/p1/40/40"},
		{Name: "Priya Patel", PortfolioValue: d("119450.75"), Change: d("19.45"), Avatar: "https://picsum.photos/seed/p2/40/40"},
		{Name: "Rohan Mehta", PortfolioValue: d("115200.00"), Change: d("15.20"), Avatar: "https://picsum.photos/seed/p3/40/40"},
		{Name: "Sanya Gupta", PortfolioValue: d("108990.20"), Change: d("8.99"), Avatar: "https://picsum.photos/seed/p4/40/40"},
		{Name: "Vikram Singh", PortfolioValue: d("105600.00"), Change: d("5.60"), Avatar: "https://picsum.photos/seed/p5/40/40"},
		{Name: "Neha Reddy", PortfolioValue: d("99870.10"), Change: d("-0.13"), Avatar: "https://picsum.photos/seed/p6/40/40"},
	}
}

// PlayerAvatar is the current user's leaderboard avatar.
const PlayerAvatar = "https://picsum.photos/seed/user/40/40"

// Modules is the learning catalogue with starter progress.
func Modules() []models.Module {
	modules := []models.Module{
		{
			ID:          "budgeting-101",
			Title:       "Budgeting 101",
			Description: "Master the art of creating and sticking to a budget. Take control of your money.",
			Icon:        "PiggyBank",
			Progress:    75,
			Lessons: []models.Lesson{
				{ID: "1", Title: "Why Budget?", Content: "A budget helps you track your income and expenses, giving you control over your money."},
				{ID: "2", Title: "The 50/30/20 Rule", Content: "Allocate 50% of your income to needs, 30% to wants, and 20% to savings."},
			},
			Quiz: []models.Question{
				{ID: "q1", Text: "What is the main purpose of a budget?", Options: []string{"To restrict spending", "To track and control money", "To increase income"}, Answer: "To track and control money"},
				{ID: "q2", Text: "In the 50/30/20 rule, what does the 20% represent?", Options: []string{"Needs", "Wants", "Savings"}, Answer: "Savings"},
			},
		},
		{
			ID:          "power-of-sips",
			Title:       "Power of SIPs",
			Description: "Understand Systematic Investment Plans and how they help in wealth creation.",
			Icon:        "TrendingUp",
			Progress:    40,
			Lessons: []models.Lesson{
				{ID: "1", Title: "What is a SIP?", Content: "A SIP allows you to invest a fixed amount in mutual funds at regular intervals."},
				{ID: "2", Title: "Benefits of SIPs", Content: "Rupee cost averaging and the power of compounding are key benefits."},
			},
			Quiz: []models.Question{
				{ID: "q1", Text: "What does SIP stand for?", Options: []string{"Systematic Investment Plan", "Simple Investment Product", "Secure Investment Portfolio"}, Answer: "Systematic Investment Plan"},
				{ID: "q2", Text: "What is a major benefit of SIPs?", Options: []string{"Guaranteed returns", "Rupee cost averaging", "No market risk"}, Answer: "Rupee cost averaging"},
			},
		},
		{
			ID:          "upi-and-digital-payments",
			Title:       "UPI & Digital Payments",
			Description: "Learn the ins and outs of UPI, wallets, and secure online transactions.",
			Icon:        "Smartphone",
			Progress:    100,
			Lessons: []models.Lesson{
				{ID: "1", Title: "Understanding UPI", Content: "UPI is an instant real-time payment system developed by NPCI."},
				{ID: "2", Title: "Staying Safe Online", Content: "Never share your UPI PIN with anyone. Beware of request money scams."},
			},
			Quiz: []models.Question{
				{ID: "q1", Text: "You should share your UPI PIN with customer support.", Options: []string{"True", "False"}, Answer: "False"},
			},
		},
		{
			ID:          "decoding-indian-taxes",
			Title:       "Decoding Indian Taxes",
			Description: "A simple guide to understanding income tax, slabs, and deductions for salaried individuals.",
			Icon:        "Landmark",
			Lessons: []models.Lesson{
				{ID: "1", Title: "What is Income Tax?", Content: "It is a tax levied by the government on the income of every person."},
			},
			Quiz: []models.Question{
				{ID: "q1", Text: "Who collects income tax?", Options: []string{"State Government", "Central Government", "Local Municipality"}, Answer: "Central Government"},
			},
		},
		{
			ID:          "credit-score-explained",
			Title:       "Credit Score Explained",
			Description: "Why your CIBIL score matters and how to build a strong credit history.",
			Icon:        "Gauge",
			Lessons: []models.Lesson{
				{ID: "1", Title: "What is a Credit Score?", Content: "A 3-digit numeric summary of your credit history."},
			},
			Quiz: []models.Question{
				{ID: "q1", Text: "A higher credit score is better.", Options: []string{"True", "False"}, Answer: "True"},
			},
		},
		{
			ID:          "intro-to-mutual-funds",
			Title:       "Intro to Mutual Funds",
			Description: "Demystify mutual funds, their types, and how to choose the right one for you.",
			Icon:        "HelpCircle",
			Progress:    20,
			Lessons: []models.Lesson{
				{ID: "1", Title: "What are Mutual Funds?", Content: "A professionally managed investment fund that pools money from many investors to purchase securities."},
			},
			Quiz: []models.Question{
				{ID: "q1", Text: "Who manages a mutual fund?", Options: []string{"The government", "A professional fund manager", "The investors themselves"}, Answer: "A professional fund manager"},
			},
		},
	}
	for i := range modules {
		modules[i].Attempt = models.AttemptNotStarted
	}
	return modules
}

// Challenges are the fraud-awareness scenarios.
func Challenges() []fraud.Challenge {
	return []fraud.Challenge{
		{
			ID:       "phishing-email",
			Title:    "Phishing Email Challenge",
			Scenario: `You receive an email from "YourBank Support" with the subject "Action Required: Your Account is Temporarily Locked". It states that suspicious activity was detected and you must click a link to verify your identity immediately. The link looks like "yourbank.security.login-portal.com".`,
			Question: "What should you do?",
			Options: []fraud.Option{
				{Text: "Click the link and log in", Feedback: "Incorrect. This is a classic phishing attempt. The URL is fake and designed to steal your credentials."},
				{Text: "Delete the email and report as spam", Correct: true, Feedback: "Correct! Never click links in unsolicited emails. Always go to your bank's official website directly."},
				{Text: "Reply with your account details", Feedback: "Incorrect. Never share personal or financial details over email. Your bank will never ask for this."},
			},
		},
		{
			ID:       "upi-fraud",
			Title:    `UPI "Request Money" Scam`,
			Scenario: `You listed an old phone for sale online. A buyer contacts you and agrees to pay via UPI. Instead of sending money, you receive a UPI "Request" for the same amount with a note saying "Approve this request to receive payment".`,
			Question: "What does this mean?",
			Options: []fraud.Option{
				{Text: "Approving will credit money to my account", Feedback: `Incorrect. Approving a "Request" will DEBIT money from your account. This is a common scam.`},
				{Text: "This is a standard way to receive money", Feedback: "Incorrect. To receive money, you just need to share your UPI ID or QR code. You never need to approve a request or enter your PIN."},
				{Text: "This is a scam to debit my account", Correct: true, Feedback: "Correct! The fraudster is trying to trick you into sending them money instead of the other way around."},
			},
		},
		{
			ID:       "fake-investment",
			Title:    "Fake Investment Scheme",
			Scenario: `You see a social media ad for an investment scheme that promises "guaranteed 30% monthly returns" on your investment with "zero risk". To join, you just need to transfer money to a personal UPI ID.`,
			Question: "Is this a legitimate investment?",
			Options: []fraud.Option{
				{Text: "Yes, high returns are possible with new tech", Feedback: `Incorrect. Unrealistic "guaranteed" returns are a major red flag for Ponzi schemes. Legitimate investments always carry risk.`},
				{Text: "No, this is likely a fraudulent scheme", Correct: true, Feedback: "Correct! Guaranteed high returns, pressure to invest quickly, and payments to personal accounts are all signs of a scam."},
			},
		},
	}
}
