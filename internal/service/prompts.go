package service

const foodPrompt = `Analyze this food image and give a nutritional breakdown.

Identify every distinct food item in the image. For each item estimate:
- calories
- protein in grams
- carbohydrates in grams
- fat in grams

Answer with ONLY a JSON object of exactly this shape:
{
  "calorie_data": {
    "<food item name>": {"calories": number, "protein": number, "carbs": number, "fat": number}
  },
  "total_calories": number,
  "analysis": "short overall nutrition assessment as plain text"
}

Use the real name of each food item as its key. Every value except "analysis"
must be a number, not a string. Do not write anything outside the JSON object.`

const posturePrompt = `Analyze this image of a person's posture and give a posture assessment.

Consider head position, shoulder alignment, spine curvature, hip alignment,
knee position and any other relevant aspect of posture.

Answer with ONLY a JSON object of exactly this shape:
{
  "posture_score": number from 0 to 100 rating overall posture health,
  "posture_issues": ["issue", "..."],
  "recommendations": ["recommendation", "..."],
  "analysis": "overall posture assessment as plain text"
}

posture_score must be a number, not a string. Do not write anything outside
the JSON object.`

const coachPrompt = "As a fitness AI coach, help the user with their fitness journey. " +
	"Consider workout plans, nutrition advice, and general fitness guidance. User's question: "
