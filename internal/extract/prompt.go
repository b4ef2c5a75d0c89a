package extract

// shoppingPrompt asks the model to pull priced line items out of the
// audio. The worked examples pin down the unit conversions the model
// tends to get wrong, like grams quoted against a per-kilo price.
const shoppingPrompt = `Listen to the audio and extract the shopping items mentioned.
Respond ONLY with a JSON array, no markdown, no explanations.

Each element must have this shape:
{"product": string, "quantity": number, "price": number}

Rules:
- "product" is the singular product name, capitalized.
- "quantity" is how many units. Default to 1.0 when not mentioned.
- "price" is the unit price. Default to 0.0 when not mentioned.
- When a weight is given against a per-kilo price, convert the weight
  to a fraction of a kilo and keep the per-kilo price.
- One element per distinct product and price. The same product at two
  prices is two elements.

Examples:
"2 desodorantes de 45 pesos y uno de 25 pesos" ->
[{"product":"Desodorante","quantity":2.0,"price":45.0},{"product":"Desodorante","quantity":1.0,"price":25.0}]

"323 gramos de tomate a 80 el kilo" ->
[{"product":"Tomate","quantity":0.323,"price":80.0}]

"pan lactal" ->
[{"product":"Pan lactal","quantity":1.0,"price":0.0}]

If no items are mentioned, respond with [].`

// wishlistPrompt only needs product names.
const wishlistPrompt = `Listen to the audio and extract the product names mentioned.
Respond ONLY with a JSON array, no markdown, no explanations.

Each element must have this shape:
{"product": string}

Rules:
- "product" is the singular product name, capitalized.
- One element per distinct product. Ignore quantities and prices.

Examples:
"necesito comprar queso y aceitunas" ->
[{"product":"Queso"},{"product":"Aceitunas"}]

"yerba" ->
[{"product":"Yerba"}]

If no items are mentioned, respond with [].`

// BuildPrompt returns the extraction prompt for the given mode.
func BuildPrompt(mode Mode) string {
	if mode == ModeWishlist {
		return wishlistPrompt
	}
	return shoppingPrompt
}
