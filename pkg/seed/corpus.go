package seed

// KnowledgeItem is one verified guidance entry. English and Hindi text are
// embedded together so queries in either language land on the same point.
type KnowledgeItem struct {
	Content    string
	ContentHi  string
	Topic      string
	Source     string
	Confidence float64
}

// NutritionItem is one entry in the nutrition pattern collection.
type NutritionItem struct {
	FoodItem    string
	LocalName   string
	Content     string
	Description string
	IronContent float64
}

// MedicalKnowledge is the verified maternal health corpus, drawn from WHO
// and Indian national programme guidelines.
var MedicalKnowledge = []KnowledgeItem{
	// Danger signs
	{
		Content:    "Severe bleeding during pregnancy (APH) or after delivery (PPH) is a medical emergency. Go to hospital immediately.",
		ContentHi:  "गर्भावस्था या प्रसव के बाद ज्यादा खून बहना खतरनाक है। तुरंत अस्पताल जाएं।",
		Topic:      "danger_signs",
		Source:     "WHO Maternal Health Guidelines",
		Confidence: 1.0,
	},
	{
		Content:    "Severe headache, blurred vision, or swelling of face/hands indicates preeclampsia (high BP). Seek immediate medical care.",
		ContentHi:  "तेज सिरदर्द, धुंधला दिखना, या चेहरे/हाथों पर सूजन हाई-बीपी (प्रीक्लेम्पसिया) का संकेत है। तुरंत डॉक्टर को दिखाएं।",
		Topic:      "danger_signs",
		Source:     "WHO/NHM Guidelines",
		Confidence: 0.99,
	},
	{
		Content:    "Convulsions or fits during pregnancy are life-threatening (Eclampsia). Call for help and transport to facility immediately.",
		ContentHi:  "गर्भावस्था में दौरे पड़ना जानलेवा हो सकता है। तुरंत अस्पताल ले जाएं।",
		Topic:      "danger_signs",
		Source:     "WHO",
		Confidence: 1.0,
	},
	{
		Content:    "High fever (>38°C) with foul discharge or abdominal pain indicates sepsis/infection. Needs antibiotics immediately.",
		ContentHi:  "तेज बुखार, बदबूदार स्राव या पेट दर्द संक्रमण का संकेत है। तुरंत इलाज कराएं।",
		Topic:      "danger_signs",
		Source:     "NHM Dakshata Guidelines",
		Confidence: 0.95,
	},
	{
		Content:    "Reduced fetal movements: If baby moves less than 10 times in 12 hours, consult doctor immediately.",
		ContentHi:  "अगर शिशु 12 घंटे में 10 बार से कम हलचल करे, तो तुरंत डॉक्टर से मिलें।",
		Topic:      "danger_signs",
		Source:     "ACOG/WHO",
		Confidence: 0.95,
	},

	// Anemia and nutrition
	{
		Content:    "Severe Anemia (Hb < 7 g/dL): Symptoms include extreme fatigue, breathlessness at rest, pale palms. Requires immediate treatment.",
		ContentHi:  "गंभीर एनीमिया: बहुत थकान, सांस फूलना, पीली हथेली। तुरंत इलाज जरूरी है।",
		Topic:      "anemia",
		Source:     "Anemia Mukt Bharat",
		Confidence: 0.98,
	},
	{
		Content:    "Take 1 IFA tablet (Iron-Folic Acid) daily from 4th month of pregnancy till 6 months after delivery. Prevents anemia.",
		ContentHi:  "गर्भावस्था के चौथे महीने से रोज एक IFA (आयरन) की गोली लें। यह खून की कमी रोकती है।",
		Topic:      "nutrition",
		Source:     "Anemia Mukt Bharat",
		Confidence: 1.0,
	},
	{
		Content:    "Calcium Supplementation: Take 2 tablets (500mg each) daily after meals from 14 weeks. Do not take with Iron tablet.",
		ContentHi:  "कैल्शियम की 2 गोलियां रोज खाने के बाद लें। आयरन की गोली के साथ न लें।",
		Topic:      "nutrition",
		Source:     "Maternal Nutrition Guidelines India",
		Confidence: 0.95,
	},
	{
		Content:    "Pregnancy Diet: Needs extra food (+350 calories). Eat pulses, milk, eggs, green leafy vegetables, and nuts. Tiranga Bhojan (Tri-color food) is best.",
		ContentHi:  "गर्भावस्था में ज्यादा खाना जरूरी है। दाल, दूध, अंडा, हरी सब्जियां और सूखे मेवे खाएं।",
		Topic:      "nutrition",
		Source:     "Poshan Abhiyaan",
		Confidence: 0.95,
	},

	// Antenatal care
	{
		Content:    "Minimum 4 ANC Checkups are mandatory: 1st (within 12 weeks), 2nd (14-26 weeks), 3rd (28-34 weeks), 4th (36 weeks-term).",
		ContentHi:  "गर्भावस्था में कम से कम 4 जांच जरूरी हैं: पहली 3 महीने में, दूसरी 5-6 महीने में, तीसरी 7-8 महीने में, चौथी 9 महीने में।",
		Topic:      "antenatal_care",
		Source:     "Pradhan Mantri Surakshit Matritva Abhiyan (PMSMA)",
		Confidence: 1.0,
	},
	{
		Content:    "Get 2 doses of Tetanus Toxoid (TT) vaccine during pregnancy to protect mother and baby from Tetanus.",
		ContentHi:  "गर्भावस्था में टिटनेस (TT) के 2 टीके जरूर लगवाएं।",
		Topic:      "antenatal_care",
		Source:     "Universal Immunization Programme",
		Confidence: 1.0,
	},

	// Newborn care
	{
		Content:    "Essential Newborn Care: Dry baby immediately, Skin-to-skin contact, Delayed cord clamping, Breastfeeding within 1 hour. Do NOT bathe baby for 24 hours.",
		ContentHi:  "शिशु की देखभाल: तुरंत पोंछें, माँ से चिपकाकर रखें, 1 घंटे में स्तनपान कराएं। 24 घंटे तक न नहलाएं।",
		Topic:      "newborn_care",
		Source:     "NSSK Guidelines",
		Confidence: 0.98,
	},
	{
		Content:    "Newborn Danger Signs: Not feeding, convulsions, fast breathing (>60/min), chest indrawing, fever or cold body. Refer to SNCU immediately.",
		ContentHi:  "नवजात खतरे के संकेत: दूध न पीना, दौरे, तेज सांस, बुखार या शरीर ठंडा पड़ना। तुरंत अस्पताल ले जाएं।",
		Topic:      "newborn_care",
		Source:     "HBNC Guidelines",
		Confidence: 0.98,
	},
	{
		Content:    "Exclusive Breastfeeding: Give ONLY breastmilk for first 6 months. No water, honey, or ghutti. Colostrum (first yellow milk) is mandatory.",
		ContentHi:  "पहले 6 महीने सिर्फ माँ का दूध पिलाएं। पानी, शहद या घुट्टी न दें। पहला पीला दूध जरूर पिलाएं।",
		Topic:      "breastfeeding",
		Source:     "MAA Programme",
		Confidence: 1.0,
	},

	// Government schemes
	{
		Content:    "Janani Suraksha Yojana (JSY): Cash assistance for institutional delivery (Rs 1400 in rural areas). ASHA helps you.",
		ContentHi:  "जननी सुरक्षा योजना (JSY): अस्पताल में प्रसव के लिए नकद सहायता (ग्रामीण में 1400 रुपये)। आशा दीदी मदद करेगी।",
		Topic:      "schemes",
		Source:     "NHM Guidelines",
		Confidence: 0.95,
	},
	{
		Content:    "JSSK Scheme: Free delivery, free drugs, free diagnostics, free diet, and free transport (home-to-hospital-to-home).",
		ContentHi:  "JSSK योजना: मुफ्त प्रसव, मुफ्त दवा, मुफ्त जांच, मुफ्त खाना, और मुफ्त एम्बुलेंस सुविधा।",
		Topic:      "schemes",
		Source:     "NHM Guidelines",
		Confidence: 0.96,
	},
	{
		Content:    "PMMVY: Rs 5000 cash incentive for first child in 3 installments for nutrition support.",
		ContentHi:  "PMMVY: पहले बच्चे के लिए 5000 रुपये की नकद सहायता (3 किश्तों में)।",
		Topic:      "schemes",
		Source:     "WCD Ministry",
		Confidence: 0.95,
	},
}

// NutritionPatterns is the verified nutrition corpus. Iron content is
// mg per 100g of the edible portion.
var NutritionPatterns = []NutritionItem{
	{
		FoodItem:    "Spinach (Palak)",
		LocalName:   "पालक (Palak)",
		Content:     "Spinach is rich in Iron and Folic Acid. Eat with lemon (Vitamin C) for better absorption.",
		Description: "Excellent for preventing anemia",
		IronContent: 2.7,
	},
	{
		FoodItem:    "Jaggery (Gur)",
		LocalName:   "गुड़ (Gur)",
		Content:     "Jaggery helps boost hemoglobin. Replace sugar with jaggery.",
		Description: "Natural iron source",
		IronContent: 11.0,
	},
	{
		FoodItem:    "Lentils/Pulses (Dal)",
		LocalName:   "दाल (Dal)",
		Content:     "Dal provides Protein for baby's growth. Eat yellow and black dal daily.",
		Description: "Protein source",
		IronContent: 3.3,
	},
	{
		FoodItem:    "Milk & Curd",
		LocalName:   "दूध-दही (Milk/Curd)",
		Content:     "Milk products provide Calcium key for baby's bones. Drink 2 glasses daily.",
		Description: "Calcium source",
		IronContent: 0.1,
	},
	{
		FoodItem:    "Egg",
		LocalName:   "अंडा (Egg)",
		Content:     "Eggs are a complete protein source. Eat boiled egg daily if non-veg.",
		Description: "Complete nutrition",
		IronContent: 1.2,
	},
	{
		FoodItem:    "Drumstick Leaves (Moringa)",
		LocalName:   "सहजन की पत्तियां (Moringa)",
		Content:     "Moringa leaves are a superfood with very high Iron and Calcium.",
		Description: "Superfood for anemia",
		IronContent: 4.0,
	},
}
