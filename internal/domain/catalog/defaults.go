package catalog

import "github.com/okian/interviewcoach/internal/domain/model"

// Default returns the built-in table. Entry order is the classification
// precedence: java is checked before software so "Java Backend Engineer"
// lands on java, and intern before marketing so "Marketing Intern" lands on
// intern.
func Default() *Table {
	t, err := New(defaultEntries(), DefaultVocabulary())
	if err != nil {
		panic("catalog: built-in table is invalid: " + err.Error())
	}
	return t
}

// DefaultVocabulary returns the built-in transcript vocabularies.
func DefaultVocabulary() Vocabulary {
	return Vocabulary{
		Technical: []string{
			"api", "database", "architecture", "algorithm", "scalability", "latency",
			"microservice", "microservices", "cache", "caching", "deployment", "kubernetes",
			"docker", "testing", "unit test", "integration", "pipeline", "ci/cd", "refactor",
			"performance", "concurrency", "sql", "schema", "cloud", "aws", "framework",
			"spring", "jvm", "garbage collection", "thread", "model", "dataset", "regression",
			"a/b test", "experiment", "funnel", "conversion", "retention", "segmentation",
			"roadmap", "prioritization", "stakeholder", "metric", "kpi", "prototype",
			"wireframe", "usability", "user research", "design system", "accessibility",
		},
		Confidence: []string{
			"i led", "i built", "i designed", "i delivered", "i decided", "i owned",
			"i drove", "i launched", "i improved", "i achieved", "i implemented",
			"successfully", "confident", "definitely", "responsible for", "i managed",
		},
		Filler: []string{
			"um", "uh", "er", "ah", "like", "you know", "basically", "actually",
			"literally", "sort of", "kind of", "i mean", "i guess",
		},
		MetricUnits: []string{
			"percent", "users", "customers", "ms", "milliseconds", "seconds", "minutes",
			"hours", "days", "weeks", "months", "requests", "transactions", "million",
			"thousand", "k", "x", "times", "dollars", "people", "engineers", "projects",
		},
	}
}

func defaultEntries() []Entry {
	return []Entry{
		{
			Category: model.CategoryJava,
			Keywords: []string{"java", "spring boot", "jvm", "j2ee", "jakarta ee"},
			Baseline: 7.5,
			Questions: []string{
				"How does garbage collection work in the JVM, and how would you tune it for a latency-sensitive service?",
				"What is the difference between an interface and an abstract class in Java?",
				"How do you handle concurrency in Java, and when would you reach for the java.util.concurrent package?",
				"Explain how dependency injection works in Spring and why it matters for testing?",
				"How would you diagnose a memory leak in a running Java application?",
				"What are the trade-offs between checked and unchecked exceptions?",
				"How do Java streams differ from traditional loops, and when would you avoid them?",
				"Describe how you would design a REST API with Spring Boot for high traffic?",
				"How does the equals and hashCode contract affect collections like HashMap?",
				"Tell me about a Java performance problem you solved and how you measured the improvement?",
			},
			Mistakes: []string{
				"Described JVM behaviour without explaining its impact on the system",
				"Skipped over thread-safety concerns in the concurrency example",
				"Did not mention how the Spring configuration was tested",
				"Used framework names without explaining the design decision behind them",
				"Missed the opportunity to quantify the performance improvement",
				"Glossed over exception handling in the example",
			},
			Tips: []string{
				"Tie each JVM detail to an observable outcome such as latency or memory",
				"Walk through one concurrency bug you fixed and how you verified it",
				"Mention the testing strategy for your Spring components",
				"Quantify performance work with before and after numbers",
				"Explain why you chose a library, not just which one",
				"Practice explaining equals/hashCode with a concrete collection bug",
			},
		},
		{
			Category: model.CategoryIntern,
			Keywords: []string{"intern", "internship", "trainee", "apprentice", "graduate", "entry level", "entry-level", "student"},
			Baseline: 5.5,
			Questions: []string{
				"What interests you most about this internship?",
				"Tell me about a class project you are proud of and your role in it?",
				"How do you approach learning a new tool or technology quickly?",
				"Describe a time you asked for help. How did you decide it was the right moment?",
				"What do you hope to learn during this internship?",
				"How do you manage your time between coursework and other commitments?",
				"Tell me about a time you received feedback and what you changed afterwards?",
				"Describe a team project where members disagreed. How did you handle it?",
				"What skills from your studies do you think will transfer to this role?",
				"Where do you see yourself after completing this internship?",
			},
			Mistakes: []string{
				"Focused on coursework without describing a concrete outcome",
				"Did not explain your individual contribution to the team project",
				"Answer sounded rehearsed rather than reflective",
				"Missed connecting your interests to the company or role",
				"Under-sold transferable skills from part-time work or clubs",
				"Did not ask a clarifying question when the prompt was open-ended",
			},
			Tips: []string{
				"Use the STAR format: situation, task, action, result",
				"Name one specific thing you personally built or decided",
				"Research the team and mention why its work interests you",
				"Treat clubs, part-time jobs and volunteering as real experience",
				"Close with what you want to learn in the first month",
				"Practice a 60-second introduction that ends with your goal",
			},
		},
		{
			Category: model.CategoryData,
			Keywords: []string{"data", "analytics", "machine learning", "ml engineer", "statistic", "bi analyst", "business intelligence"},
			Baseline: 7,
			Questions: []string{
				"Walk me through how you would clean a messy dataset before analysis?",
				"How do you decide which metric best represents the success of a feature?",
				"Explain the bias-variance trade-off to a non-technical stakeholder?",
				"How would you design an A/B test and decide when it has run long enough?",
				"Tell me about a time your analysis changed a business decision?",
				"How do you handle missing or inconsistent data?",
				"What is the difference between correlation and causation, with an example from your work?",
				"How would you detect and respond to data drift in a production model?",
				"Describe a SQL query you optimized and how you measured the improvement?",
				"How do you communicate uncertainty in your results?",
			},
			Mistakes: []string{
				"Presented results without stating the sample size or confidence",
				"Skipped data-quality checks in the walkthrough",
				"Did not connect the analysis to a business decision",
				"Used jargon without explaining it to the audience",
				"Ignored alternative explanations for the observed effect",
				"Left out how the model was validated",
			},
			Tips: []string{
				"State the decision your analysis supported before the method",
				"Mention data-quality checks explicitly",
				"Quantify impact with a before and after metric",
				"Explain one limitation of your approach unprompted",
				"Practice explaining a model to a non-technical listener",
				"Describe how you validated results on held-out data",
			},
		},
		{
			Category: model.CategoryMarketing,
			Keywords: []string{"marketing", "seo", "brand", "growth", "campaign", "social media", "content strategist"},
			Baseline: 6.5,
			Questions: []string{
				"Tell me about a campaign you ran and how you measured its success?",
				"How do you decide which channels to invest in with a limited budget?",
				"How would you position a new product against an established competitor?",
				"Describe a time a campaign underperformed. What did you learn?",
				"How do you build and use customer personas?",
				"What metrics do you track weekly, and why those?",
				"How do you balance brand consistency with experimentation?",
				"Walk me through how you would plan a product launch?",
				"How do you work with sales to improve lead quality?",
				"What marketing trend do you think is overrated, and why?",
			},
			Mistakes: []string{
				"Described campaign activity without results",
				"Did not mention the target audience",
				"Listed channels without explaining the selection criteria",
				"Missed the chance to discuss budget or ROI",
				"Did not reflect on what you would change next time",
				"Stayed generic instead of naming a real campaign",
			},
			Tips: []string{
				"Lead with the result: reach, conversion or revenue",
				"Name the audience and the insight that shaped the message",
				"Explain how you split budget across channels",
				"Share one experiment that failed and what it taught you",
				"Prepare a launch story with timeline and metrics",
				"Show how you collaborate with sales or product",
			},
		},
		{
			Category: model.CategoryProduct,
			Keywords: []string{"product manager", "product owner", "product management", "product"},
			Baseline: 6.5,
			Questions: []string{
				"How do you decide what goes on the roadmap and what gets cut?",
				"Tell me about a product decision you made with incomplete data?",
				"How do you gather and validate user needs?",
				"Describe a time you had to say no to an important stakeholder?",
				"How do you measure whether a feature was successful?",
				"Walk me through how you would improve a product you use daily?",
				"How do you work with engineering when estimates slip?",
				"Tell me about a launch that did not go as planned?",
				"How do you balance technical debt against new features?",
				"What framework do you use for prioritization, and where does it break down?",
			},
			Mistakes: []string{
				"Described features rather than the user problem",
				"Did not explain how success was measured",
				"Skipped over the trade-offs in the prioritization",
				"Took credit for team outcomes without naming your role",
				"Did not mention how stakeholders were aligned",
				"Jumped to a solution before clarifying the goal",
			},
			Tips: []string{
				"Start with the user problem and who has it",
				"Define success metrics before describing the solution",
				"Make trade-offs explicit: what you chose not to do",
				"Describe how you aligned engineering, design and business",
				"Practice a product-improvement answer with a clear structure",
				"Quantify outcomes such as adoption or retention",
			},
		},
		{
			Category: model.CategoryDesign,
			Keywords: []string{"design", "ux", "ui/ux", "figma", "graphic", "visual", "interaction"},
			Baseline: 6.5,
			Questions: []string{
				"Walk me through your design process on a recent project?",
				"How do you incorporate user research into your designs?",
				"Tell me about a design decision you defended with data?",
				"How do you handle feedback that conflicts with your design direction?",
				"How do you ensure your designs are accessible?",
				"Describe how you collaborate with engineers during implementation?",
				"How do you decide between two competing design solutions?",
				"Tell me about a design that failed usability testing. What changed?",
				"How do you maintain consistency across a design system?",
				"Which piece in your portfolio best shows your thinking, and why?",
			},
			Mistakes: []string{
				"Showed final visuals without explaining the process",
				"Did not mention user research or testing",
				"Missed accessibility considerations",
				"Could not articulate why one option was chosen over another",
				"Did not describe collaboration with engineering",
				"Overlooked the business goal behind the design",
			},
			Tips: []string{
				"Narrate the problem, research, options and decision",
				"Mention one usability finding that changed the design",
				"Call out accessibility choices explicitly",
				"Explain trade-offs in terms of user and business impact",
				"Describe how you hand off and review implementation",
				"Pick one portfolio piece and practice a five-minute story",
			},
		},
		{
			Category: model.CategorySoftware,
			Keywords: []string{
				"software", "developer", "engineer", "backend", "back-end", "frontend", "front-end",
				"full stack", "fullstack", "programmer", "devops", "golang", "python", "javascript",
				"typescript", "react", "web",
			},
			Baseline: 7,
			Questions: []string{
				"Tell me about a challenging bug you fixed and how you found it?",
				"How would you design a URL shortener that handles millions of requests a day?",
				"How do you decide when to refactor versus rewrite?",
				"Describe your approach to writing tests for a new feature?",
				"How do you review code, and what do you look for first?",
				"Tell me about a system you built that had to scale. What broke first?",
				"How do you handle disagreements about technical direction?",
				"What is your process for debugging a performance problem in production?",
				"How do you keep a deployment pipeline fast and reliable?",
				"Explain a technical concept you know well to a non-engineer?",
			},
			Mistakes: []string{
				"Explained the solution without describing the problem's constraints",
				"Did not mention testing or verification",
				"Skipped trade-offs between alternative designs",
				"Went deep on implementation details but lost the big picture",
				"Did not quantify scale or performance impact",
				"Attributed team work to yourself without clarifying your role",
			},
			Tips: []string{
				"State constraints such as scale, latency and team size first",
				"Mention how you tested and monitored the change",
				"Compare at least two approaches and justify your choice",
				"Quantify impact with concrete numbers",
				"Practice a system design answer with a clear structure",
				"Be explicit about what you personally owned",
			},
		},
		{
			Category: model.CategoryGeneric,
			Baseline: 6.5,
			Questions: []string{
				"Why are you interested in working in {field}?",
				"Tell me about yourself and what led you to {field}?",
				"What is your greatest professional strength?",
				"Describe a challenge you faced at work and how you overcame it?",
				"Where do you see yourself in five years?",
				"Tell me about a time you worked effectively under pressure?",
				"How do you handle disagreements with a teammate?",
				"What accomplishment in {field} are you most proud of?",
				"Describe a time you had to learn something new quickly?",
				"Why should we hire you for this {field} role?",
			},
			Mistakes: []string{
				"Answer lacked a concrete example",
				"Response wandered before reaching the main point",
				"Did not describe the outcome of your actions",
				"Spoke in generalities instead of specifics",
				"Did not connect your experience to the role",
				"Ended without a clear conclusion",
			},
			Tips: []string{
				"Use the STAR format: situation, task, action, result",
				"Lead with your main point, then support it",
				"Quantify results wherever you can",
				"Prepare three stories that show different strengths",
				"Connect each answer back to the role",
				"Pause briefly instead of using filler words",
			},
		},
	}
}
