package fallback

import "github.com/ashureev/codeleap/internal/domain"

func builtinCatalog() Catalog {
	return Catalog{
		{domain.LanguageJavaScript, domain.DifficultyEasy}: {
			{
				Code:        "let count = 0;\nfor (let i = 1; i <= 5; i++) {\n  count += i;\n}\nconsole.log(count);",
				Correct:     true,
				Explanation: "This correctly calculates the sum of numbers 1 through 5 using a for loop.",
			},
			{
				Code:        "function multiply(a, b) {\n  return a * b\n}\n\nconst result = multiply(4, 5);\nconsole.log(result);",
				Correct:     false,
				Explanation: "Missing semicolon after the return statement. Should be: return a * b;",
			},
			{
				Problem:         "This function should calculate the sum of two numbers. Does it work correctly?",
				Code:            "function addNumbers(a, b) {\n  return a + b;\n}\n\nconsole.log(addNumbers(5, 3)); // Should output 8",
				CodeExplanation: "This function takes two parameters and returns their sum using the + operator.",
				Correct:         true,
				Explanation:     "This code is correct! The function properly adds two numbers and returns the result. The + operator works correctly for numeric addition.",
				AdditionalInfo:  "This is a basic example of a pure function - it takes inputs and returns an output without side effects.",
			},
		},
		{domain.LanguageJavaScript, domain.DifficultyMedium}: {
			{
				Code:        "const users = [{name: \"Alice\", age: 25}, {name: \"Bob\", age: 30}];\nconst names = users.map(user => user.name);\nconsole.log(names);",
				Correct:     true,
				Explanation: "This correctly uses the map method to extract names from an array of objects.",
			},
			{
				Code:        "async function getData() {\n  const response = await fetch(\"/api/data\");\n  const data = response.json();\n  return data;\n}",
				Correct:     false,
				Explanation: "Missing await before response.json(). Should be: const data = await response.json();",
			},
			{
				Problem:         "This function should reverse a string. Is there an issue with the implementation?",
				Code:            "function reverseString(str) {\n  let reversed = '';\n  for (let i = str.length; i >= 0; i--) {\n    reversed += str[i];\n  }\n  return reversed;\n}\n\nconsole.log(reverseString('hello')); // Should output 'olleh'",
				CodeExplanation: "This function attempts to reverse a string by iterating backwards through its characters.",
				Correct:         false,
				Explanation:     "This code has a bug! The loop starts at str.length instead of str.length - 1, so the first iteration reads str[str.length], which is undefined, and \"undefined\" is prepended to the result.",
				AdditionalInfo:  "The correct loop is: for (let i = str.length - 1; i >= 0; i--). String indices are 0-based, so the last character is at index length - 1.",
			},
		},
		{domain.LanguageJavaScript, domain.DifficultyHard}: {
			{
				Code:        "function memoize(fn) {\n  const cache = new Map();\n  return function(...args) {\n    const key = JSON.stringify(args);\n    if (cache.has(key)) {\n      return cache.get(key);\n    }\n    const result = fn.apply(this, args);\n    cache.set(key, result);\n    return result;\n  };\n}",
				Correct:     true,
				Explanation: "This correctly implements a memoization function using closures and a Map for caching.",
			},
			{
				Problem:         "This function implements a binary search algorithm. Does it handle all edge cases correctly?",
				Code:            "function binarySearch(arr, target) {\n  let left = 0;\n  let right = arr.length - 1;\n\n  while (left <= right) {\n    let mid = Math.floor((left + right) / 2);\n\n    if (arr[mid] === target) {\n      return mid;\n    } else if (arr[mid] < target) {\n      left = mid + 1;\n    } else {\n      right = mid - 1;\n    }\n  }\n\n  return -1;\n}",
				CodeExplanation: "This function implements binary search to find a target value in a sorted array.",
				Correct:         true,
				Explanation:     "This binary search implementation is correct! It handles empty arrays, single elements, missing targets, and targets at either end of the array.",
				AdditionalInfo:  "Binary search runs in O(log n) time and requires a sorted input. Each step halves the search space.",
			},
		},
		{domain.LanguageHTML, domain.DifficultyEasy}: {
			{
				Code:        "<div class=\"card\">\n  <h2>Welcome</h2>\n  <p>This is a simple card component.</p>\n  <button>Click me</button>\n</div>",
				Correct:     true,
				Explanation: "This HTML is properly structured with correct nesting and semantic elements.",
			},
			{
				Code:        "<ul>\n  <li>Item 1</li>\n  <li>Item 2\n  <li>Item 3</li>\n</ul>",
				Correct:     false,
				Explanation: "Missing closing </li> tag for \"Item 2\". Each list item must be properly closed.",
			},
			{
				Problem:         "This HTML creates a simple form. Is the structure valid?",
				Code:            "<form>\n  <label for=\"username\">Username:</label>\n  <input type=\"text\" id=\"username\" name=\"username\" required>\n\n  <label for=\"email\">Email:</label>\n  <input type=\"email\" id=\"email\" name=\"email\" required>\n\n  <button type=\"submit\">Submit</button>\n</form>",
				CodeExplanation: "This HTML creates a form with two input fields and a submit button.",
				Correct:         true,
				Explanation:     "This HTML is correct! Each label is associated with its input through the \"for\" attribute, the input types fit their data, and the form has a submit button.",
				AdditionalInfo:  "Good practices shown: semantic HTML, label association, \"required\" validation and appropriate input types.",
			},
		},
		{domain.LanguageHTML, domain.DifficultyMedium}: {
			{
				Code:        "<form>\n  <label for=\"username\">Username:</label>\n  <input type=\"text\" id=\"username\" name=\"username\" required>\n  <label for=\"password\">Password:</label>\n  <input type=\"password\" id=\"password\" name=\"password\" required>\n  <button type=\"submit\">Login</button>\n</form>",
				Correct:     true,
				Explanation: "This form is properly structured with labels correctly associated with inputs for accessibility.",
			},
			{
				Problem:         "This HTML table should display user data. Are there any accessibility issues?",
				Code:            "<table>\n  <tr>\n    <td>Name</td>\n    <td>Age</td>\n    <td>Email</td>\n  </tr>\n  <tr>\n    <td>John Doe</td>\n    <td>30</td>\n    <td>john@example.com</td>\n  </tr>\n  <tr>\n    <td>Jane Smith</td>\n    <td>25</td>\n    <td>jane@example.com</td>\n  </tr>\n</table>",
				CodeExplanation: "This HTML creates a table to display user information with headers and data rows.",
				Correct:         false,
				Explanation:     "This HTML has accessibility issues! The header row uses <td> instead of <th>, and the table has no <thead> and <tbody> sections for screen readers.",
				AdditionalInfo:  "A correct structure is: <thead><tr><th>Name</th><th>Age</th><th>Email</th></tr></thead><tbody>...data rows...</tbody>",
			},
		},
		{domain.LanguageHTML, domain.DifficultyHard}: {
			{
				Code:        "<article>\n  <header>\n    <h1>Article Title</h1>\n    <time datetime=\"2024-01-15\">January 15, 2024</time>\n  </header>\n  <section>\n    <p>Article content goes here.</p>\n  </section>\n</article>",
				Correct:     true,
				Explanation: "This uses semantic HTML5 elements correctly to structure an article with proper hierarchy.",
			},
			{
				Problem:         "This HTML creates a complex form with validation. Are all accessibility requirements met?",
				Code:            "<form aria-labelledby=\"contact-form\">\n  <h2 id=\"contact-form\">Contact Form</h2>\n\n  <fieldset>\n    <legend>Personal Information</legend>\n\n    <div>\n      <label for=\"name\">Full Name *</label>\n      <input type=\"text\" id=\"name\" name=\"name\" required aria-describedby=\"name-error\">\n      <div id=\"name-error\" role=\"alert\" aria-live=\"polite\"></div>\n    </div>\n\n    <div>\n      <label for=\"phone\">Phone Number</label>\n      <input type=\"tel\" id=\"phone\" name=\"phone\" aria-describedby=\"phone-help\">\n      <div id=\"phone-help\">Format: (123) 456-7890</div>\n    </div>\n  </fieldset>\n\n  <button type=\"submit\">Send Message</button>\n</form>",
				CodeExplanation: "This HTML creates an accessible contact form with ARIA attributes and semantic structure.",
				Correct:         true,
				Explanation:     "This HTML is excellent! It uses ARIA labels, fieldset grouping, error message association and live regions for dynamic content.",
				AdditionalInfo:  "Key accessibility features: aria-labelledby, aria-describedby, role=\"alert\", aria-live=\"polite\" and fieldset/legend grouping.",
			},
		},
		{domain.LanguageCSS, domain.DifficultyEasy}: {
			{
				Code:        ".button {\n  background-color: #007bff;\n  color: white;\n  padding: 10px 20px;\n  border: none;\n  border-radius: 4px;\n  cursor: pointer;\n}",
				Correct:     true,
				Explanation: "This CSS correctly styles a button with proper syntax and semicolons.",
			},
			{
				Code:        ".card {\n  background-color: #f8f9fa\n  padding: 20px;\n  border-radius: 8px;\n  box-shadow: 0 2px 4px rgba(0,0,0,0.1);\n}",
				Correct:     false,
				Explanation: "Missing semicolon after background-color property. Should be: background-color: #f8f9fa;",
			},
			{
				Problem:         "This CSS should center a div horizontally and vertically. Will it work?",
				Code:            ".container {\n  display: flex;\n  justify-content: center;\n  align-items: center;\n  height: 100vh;\n}\n\n.centered-box {\n  width: 200px;\n  height: 200px;\n  background-color: blue;\n}",
				CodeExplanation: "This CSS uses flexbox to center a box both horizontally and vertically within its container.",
				Correct:         true,
				Explanation:     "This CSS is correct! justify-content: center and align-items: center on a flex container center the child on both axes.",
				AdditionalInfo:  "Flexbox is the modern standard for centering. The container takes the full viewport height (100vh) and centers its content.",
			},
		},
		{domain.LanguageCSS, domain.DifficultyMedium}: {
			{
				Code:        ".container {\n  display: flex;\n  justify-content: center;\n  align-items: center;\n  min-height: 100vh;\n  gap: 20px;\n}",
				Correct:     true,
				Explanation: "This correctly uses flexbox to center content both horizontally and vertically.",
			},
			{
				Problem:         "This CSS creates a responsive grid layout. Is there an issue with the implementation?",
				Code:            ".grid-container {\n  display: grid;\n  grid-template-columns: repeat(auto-fit, minmax(250px, 1fr));\n  gap: 20px;\n  padding: 20px;\n}\n\n.grid-item {\n  background-color: #f0f0f0;\n  padding: 20px;\n  border-radius: 8px;\n  min-height: 200px;\n}",
				CodeExplanation: "This CSS creates a responsive grid that adjusts the number of columns to the available space.",
				Correct:         true,
				Explanation:     "This CSS is correct! auto-fit with minmax() produces a responsive grid whose columns are never narrower than 250px.",
				AdditionalInfo:  "auto-fit collapses empty columns while auto-fill keeps them. minmax(250px, 1fr) lets items grow to fill the remaining space.",
			},
		},
		{domain.LanguageCSS, domain.DifficultyHard}: {
			{
				Code:        "@keyframes fadeIn {\n  from { opacity: 0; transform: translateY(20px); }\n  to { opacity: 1; transform: translateY(0); }\n}\n\n.animate {\n  animation: fadeIn 0.3s ease-out;\n}",
				Correct:     true,
				Explanation: "This correctly defines a CSS animation with keyframes for a fade-in effect.",
			},
			{
				Problem:         "This CSS implements a complex animation with transforms. Are there any performance issues?",
				Code:            ".animated-element {\n  width: 100px;\n  height: 100px;\n  background-color: red;\n  animation: complexMove 3s ease-in-out infinite;\n}\n\n@keyframes complexMove {\n  0% {\n    transform: translateX(0) rotate(0deg);\n    left: 0px;\n  }\n  50% {\n    transform: translateX(200px) rotate(180deg);\n    left: 100px;\n  }\n  100% {\n    transform: translateX(0) rotate(360deg);\n    left: 0px;\n  }\n}",
				CodeExplanation: "This CSS animates an element using both transforms and position properties.",
				Correct:         false,
				Explanation:     "This CSS has performance issues! Animating left alongside transform forces layout recalculation on every frame, while transforms alone run on the compositor.",
				AdditionalInfo:  "Use only transform properties, for example translateX() instead of left. Transforms are GPU-accelerated and do not trigger layout.",
			},
		},
	}
}
